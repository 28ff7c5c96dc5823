// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/services"
)

func newVideoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Upload and process surveillance videos",
		Long: `Upload surveillance videos and run face recognition over their frames.

Processing is synchronous on the backend; 'video process' returns when the
whole video has been analyzed.

Examples:
  facetrack video upload lobby.mp4 --location Lobby --camera cam-1
  facetrack video process 12 --frame-skip 10 --threshold 0.8
  facetrack video frames 12 --matched-only`,
	}

	var opts services.UploadOptions
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video for processing",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjVideos, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res, err := a.svc.Video.Upload(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) {
				row(w, "Video ID:", res.VideoID)
				row(w, "Duration:", fmt.Sprintf("%.1fs", res.Metadata.DurationSeconds))
				row(w, "Frames:", res.Metadata.TotalFrames)
				row(w, "FPS:", res.Metadata.FPS)
				row(w, "Resolution:", fmt.Sprintf("%dx%d", res.Metadata.Width, res.Metadata.Height))
				row(w, "Size:", fmt.Sprintf("%.2f MB", res.Metadata.FileSizeMB))
				fmt.Fprintf(w, "\nRun 'facetrack video process %d' to analyze it.\n", res.VideoID)
			})
		}),
	}
	upload.Flags().StringVar(&opts.Location, "location", "", "Where the video was recorded")
	upload.Flags().StringVar(&opts.CameraID, "camera", "", "Camera identifier")

	var preq models.VideoProcessRequest
	process := &cobra.Command{
		Use:   "process <id>",
		Short: "Run face recognition over an uploaded video",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjVideos, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Video.Process(ctx, id, preq)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) {
				fmt.Fprintln(w, res.Message)
				for _, k := range []string{"frames_processed", "total_faces", "unique_criminals_matched", "processing_time"} {
					if v, ok := res.Results[k]; ok {
						row(w, k+":", v)
					}
				}
			})
		}),
	}
	process.Flags().IntVar(&preq.FrameSkip, "frame-skip", services.DefaultFrameSkip, "Analyze every Nth frame")
	process.Flags().Float64Var(&preq.ConfidenceThreshold, "threshold", services.DefaultConfidenceThreshold, "Minimum match confidence (0-1]")

	var limit int
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List uploaded videos",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjVideos, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Video.List(ctx, limit, status)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				if len(out.Videos) == 0 {
					fmt.Fprintln(w, "No videos found")
					return
				}
				row(w, "ID", "FILE", "STATUS", "FRAMES", "FACES", "MATCHED", "LOCATION", "UPLOADED")
				for i := range out.Videos {
					v := &out.Videos[i]
					row(w, v.ID, v.VideoFilename, v.ProcessingStatus, v.FramesProcessed, v.TotalFacesDetected, v.UniqueCriminalsMatched, v.Location, v.UploadDate)
				}
			})
		}),
	}
	list.Flags().IntVar(&limit, "limit", services.DefaultVideoListLimit, "Maximum videos to list")
	list.Flags().StringVar(&status, "status", "", "Filter by status: pending, processing, completed, failed")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a video with its matched criminals",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjVideos, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := a.svc.Video.Get(ctx, id)
			if err != nil {
				return err
			}
			v := &d.Video
			return a.render(d, func(w io.Writer) {
				row(w, "ID:", v.ID)
				row(w, "File:", v.VideoFilename)
				row(w, "Status:", v.ProcessingStatus)
				row(w, "Duration:", v.DurationSeconds)
				row(w, "Resolution:", v.Resolution)
				row(w, "Frames processed:", v.FramesProcessed)
				row(w, "Faces detected:", v.TotalFacesDetected)
				row(w, "Location:", v.Location)
				row(w, "Camera:", v.CameraID)
				row(w, "Uploaded:", v.UploadDate)
				row(w, "Completed:", v.ProcessingCompletedAt)
				if v.ErrorMessage != nil {
					row(w, "Error:", v.ErrorMessage)
				}
				if len(v.MatchedCriminals) > 0 {
					fmt.Fprintln(w)
					row(w, "CRIMINAL", "NAME", "CRIME", "DANGER")
					for _, m := range v.MatchedCriminals {
						row(w, m.ID, m.Name, m.CrimeType, m.DangerLevel)
					}
				}
			})
		}),
	}

	var matchedOnly bool
	frames := &cobra.Command{
		Use:   "frames <id>",
		Short: "List per-frame detection results",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjVideos, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := a.svc.Video.Frames(ctx, id, matchedOnly)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				if len(out.Frames) == 0 {
					fmt.Fprintln(w, "No frames found")
					return
				}
				row(w, "FRAME", "TIME", "FACES", "CRIMINAL", "CONFIDENCE")
				for i := range out.Frames {
					f := &out.Frames[i]
					row(w, f.FrameNumber, fmt.Sprintf("%.1fs", f.TimestampSeconds), f.FacesDetected, f.CriminalID, f.ConfidenceScore)
				}
			})
		}),
	}
	frames.Flags().BoolVar(&matchedOnly, "matched-only", false, "Only frames with a criminal match")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a video and its frame results",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjVideos, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Video.Delete(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show video processing totals",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjVideos, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			s, err := a.svc.Video.Stats(ctx)
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) {
				row(w, "Total videos:", s.TotalVideos)
				row(w, "Pending:", s.VideosByStatus.Pending)
				row(w, "Processing:", s.VideosByStatus.Processing)
				row(w, "Completed:", s.VideosByStatus.Completed)
				row(w, "Failed:", s.VideosByStatus.Failed)
				row(w, "Faces detected:", s.TotalFacesDetected)
				row(w, "Criminals matched:", s.TotalCriminalsMatched)
			})
		}),
	}

	cmd.AddCommand(upload, process, list, get, frames, del, stats)
	return cmd
}
