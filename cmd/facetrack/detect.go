// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/services"
)

func newDetectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run face detection and review detection logs",
		Long: `Run face detection on images and review the resulting detection logs.

Examples:
  facetrack detect upload suspect.jpg --location "Main St" --camera cam-3
  facetrack detect logs --status pending
  facetrack detect verify 42 --status verified --notes "confirmed on site"
  facetrack detect image 42 -f match.jpg`,
	}

	var opts services.UploadOptions
	var annotatedPath string
	upload := &cobra.Command{
		Use:   "upload <image>",
		Short: "Match faces in an image against the database",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjDetections, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res, err := a.svc.Detection.Upload(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return a.renderDetection(res, annotatedPath)
		}),
	}
	upload.Flags().StringVar(&opts.Location, "location", "", "Where the image was taken")
	upload.Flags().StringVar(&opts.CameraID, "camera", "", "Camera identifier")
	upload.Flags().StringVar(&annotatedPath, "annotated", "", "Write the annotated image to this file")

	var liveOpts services.UploadOptions
	live := &cobra.Command{
		Use:   "live <frame>",
		Short: "Match faces in a single camera frame",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjDetections, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res, err := a.svc.Detection.Live(ctx, args[0], liveOpts)
			if err != nil {
				return err
			}
			return a.renderDetection(res, "")
		}),
	}
	live.Flags().StringVar(&liveOpts.Location, "location", "", "Camera location")
	live.Flags().StringVar(&liveOpts.CameraID, "camera", "", "Camera identifier")

	var q services.DetectionLogQuery
	logs := &cobra.Command{
		Use:   "logs",
		Short: "List detection logs",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjDetections, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Detection.Logs(ctx, q)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				if len(out.Detections) == 0 {
					fmt.Fprintln(w, "No detections found")
					return
				}
				row(w, "ID", "CRIMINAL", "CONFIDENCE", "STATUS", "LOCATION", "CAMERA", "DETECTED")
				for i := range out.Detections {
					d := &out.Detections[i]
					row(w, d.ID, d.CriminalName, percent(d.ConfidenceScore), d.Status, d.Location, d.CameraID, d.DetectedAt)
				}
				pageFooter(w, out.CurrentPage, out.Pages, out.Total)
			})
		}),
	}
	logs.Flags().IntVar(&q.Page, "page", 1, "Page number")
	logs.Flags().IntVar(&q.PerPage, "per-page", services.DefaultDetectionsPerPage, "Logs per page")
	logs.Flags().StringVar(&q.Status, "status", "", "Filter by status: pending, verified, false_positive")

	get := &cobra.Command{
		Use:   "log <id>",
		Short: "Show a detection log",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjDetections, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := a.svc.Detection.Log(ctx, id)
			if err != nil {
				return err
			}
			return a.render(d, func(w io.Writer) {
				row(w, "ID:", d.ID)
				name := d.CriminalName
				if name == "" && d.Criminal != nil {
					name = d.Criminal.Name
				}
				row(w, "Criminal:", fmt.Sprintf("%s (#%d)", name, d.CriminalID))
				row(w, "Confidence:", percent(d.ConfidenceScore))
				row(w, "Status:", d.Status)
				row(w, "Location:", d.Location)
				row(w, "Camera:", d.CameraID)
				row(w, "Detected:", d.DetectedAt)
				row(w, "Notes:", d.Notes)
			})
		}),
	}

	var status, notes string
	verify := &cobra.Command{
		Use:   "verify <id>",
		Short: "Mark a detection as verified or a false positive",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjDetections, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Detection.Verify(ctx, id, status, notes)
			if err != nil {
				return err
			}
			return a.message(res, fmt.Sprintf("%s (detection %d is now %s)", res.Message, res.Detection.ID, res.Detection.Status))
		}),
	}
	verify.Flags().StringVar(&status, "status", models.DetectionVerified, "verified or false_positive")
	verify.Flags().StringVar(&notes, "notes", "", "Review notes")

	var outFile string
	image := &cobra.Command{
		Use:   "image <id>",
		Short: "Download the image stored for a detection",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjDetections, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			data, err := a.svc.Detection.Image(ctx, id)
			if err != nil {
				return err
			}
			path := outFile
			if path == "" {
				path = fmt.Sprintf("detection-%d.jpg", id)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
			fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), path)
			return nil
		}),
	}
	image.Flags().StringVarP(&outFile, "file", "f", "", "Output file (default detection-<id>.jpg)")

	cmd.AddCommand(upload, live, logs, get, verify, image)
	return cmd
}

func (a *app) renderDetection(res *models.DetectionResult, annotatedPath string) error {
	if annotatedPath != "" && res.AnnotatedImage != "" {
		if err := writeDataURL(annotatedPath, res.AnnotatedImage); err != nil {
			return err
		}
	}
	// The base64 image is large and only useful as a file.
	view := *res
	view.AnnotatedImage = ""

	return a.render(view, func(w io.Writer) {
		fmt.Fprintf(w, "Faces detected: %d, matched: %d\n", res.FacesDetected, res.MatchedFaces)
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
		}
		if len(res.Matches) > 0 {
			fmt.Fprintln(w)
			row(w, "LOG", "FACE", "CRIMINAL", "CRIME", "DANGER", "CONFIDENCE", "STATUS")
			for _, m := range res.Matches {
				row(w, m.ID, m.FaceIndex, fmt.Sprintf("%s (#%d)", m.CriminalName, m.CriminalID), m.CrimeType, m.DangerLevel, percent(m.Confidence), m.Status)
			}
		}
		if annotatedPath != "" && res.AnnotatedImage != "" {
			fmt.Fprintf(w, "\nAnnotated image saved to %s\n", annotatedPath)
		}
	})
}

// writeDataURL decodes a base64 image, with or without a data: prefix.
func writeDataURL(path, data string) error {
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode annotated image: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write annotated image: %w", err)
	}
	return nil
}
