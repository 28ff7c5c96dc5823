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
	"github.com/spf13/pflag"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/services"
)

func newCriminalsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "criminals",
		Aliases: []string{"criminal"},
		Short:   "Manage criminal records and face photos",
		Long: `Manage criminal records and the face photos used for matching.

Examples:
  facetrack criminals list --status wanted
  facetrack criminals create --name "John Doe" --crime-type Robbery --danger-level high
  facetrack criminals photos 7 front.jpg left.jpg right.jpg
  facetrack criminals set-primary 31`,
	}

	var q services.CriminalQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List criminal records",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjCriminals, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Criminals.List(ctx, q)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				if len(out.Criminals) == 0 {
					fmt.Fprintln(w, "No criminals found")
					return
				}
				row(w, "ID", "NAME", "ALIAS", "CRIME", "STATUS", "DANGER", "PHOTOS", "LAST SEEN")
				for i := range out.Criminals {
					c := &out.Criminals[i]
					row(w, c.ID, c.Name, c.Alias, c.CrimeType, c.Status, c.DangerLevel, c.EncodingsCount, c.LastSeenLocation)
				}
				pageFooter(w, out.CurrentPage, out.Pages, out.Total)
			})
		}),
	}
	list.Flags().IntVar(&q.Page, "page", 1, "Page number")
	list.Flags().IntVar(&q.PerPage, "per-page", services.DefaultCriminalsPerPage, "Records per page")
	list.Flags().StringVar(&q.Status, "status", "", "Filter by status: wanted, arrested, released")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a criminal record with its face encodings",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjCriminals, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.svc.Criminals.Get(ctx, id)
			if err != nil {
				return err
			}
			return a.renderCriminal(c)
		}),
	}

	var createIn criminalFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a criminal record",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			c, err := a.svc.Criminals.Create(ctx, createIn.input(cmd.Flags()))
			if err != nil {
				return err
			}
			return a.renderCriminal(c)
		}),
	}
	createIn.register(create.Flags())

	var updateIn criminalFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a criminal record",
		Long: `Update fields of a criminal record. Only flags that are given are sent.

Examples:
  facetrack criminals update 7 --status arrested`,
		Args: cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.svc.Criminals.Update(ctx, id, updateIn.input(cmd.Flags()))
			if err != nil {
				return err
			}
			return a.renderCriminal(c)
		}),
	}
	updateIn.register(update.Flags())

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a criminal record and its photos",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Criminals.Delete(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	photo := &cobra.Command{
		Use:   "photo <criminal-id> <file>",
		Short: "Add one face photo",
		Args:  cobra.ExactArgs(2),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Criminals.UploadPhoto(ctx, id, args[1])
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) {
				row(w, "Encoding:", res.EncodingID)
				row(w, "Quality:", res.QualityScore)
				row(w, "Pose:", res.PoseType)
				row(w, "Primary:", res.IsPrimary)
			})
		}),
	}

	photos := &cobra.Command{
		Use:   "photos <criminal-id> <file>...",
		Short: "Add several face photos in one request",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Criminals.UploadPhotos(ctx, id, args[1:])
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) {
				row(w, "FILE", "OK", "ENCODING", "QUALITY", "POSE", "ERROR")
				for _, r := range res.Results {
					row(w, r.Filename, r.Success, r.EncodingID, r.QualityScore, r.PoseType, r.Error)
				}
				fmt.Fprintf(w, "\n%s\n", res.Message)
			})
		}),
	}

	delPhoto := &cobra.Command{
		Use:   "delete-photo <encoding-id>",
		Short: "Delete a face encoding",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Criminals.DeleteEncoding(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	primary := &cobra.Command{
		Use:   "set-primary <encoding-id>",
		Short: "Make a face encoding the primary photo",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjCriminals, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Criminals.SetPrimaryEncoding(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	cmd.AddCommand(list, get, create, update, del, photo, photos, delPhoto, primary)
	return cmd
}

// criminalFlags binds the editable criminal fields.
type criminalFlags struct {
	name, alias, crimeType, description, status, dangerLevel, lastSeen string
}

func (f *criminalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Full name")
	fs.StringVar(&f.alias, "alias", "", "Alias")
	fs.StringVar(&f.crimeType, "crime-type", "", "Crime type")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.StringVar(&f.status, "status", "", "Status: wanted, arrested, released")
	fs.StringVar(&f.dangerLevel, "danger-level", "", "Danger level: low, medium, high, critical")
	fs.StringVar(&f.lastSeen, "last-seen", "", "Last seen location")
}

// input sends only the flags the user set.
func (f *criminalFlags) input(fs *pflag.FlagSet) models.CriminalInput {
	pick := func(flag, v string) *string {
		if !fs.Changed(flag) {
			return nil
		}
		return &v
	}
	return models.CriminalInput{
		Name:             pick("name", f.name),
		Alias:            pick("alias", f.alias),
		CrimeType:        pick("crime-type", f.crimeType),
		Description:      pick("description", f.description),
		Status:           pick("status", f.status),
		DangerLevel:      pick("danger-level", f.dangerLevel),
		LastSeenLocation: pick("last-seen", f.lastSeen),
	}
}

func (a *app) renderCriminal(c *models.Criminal) error {
	return a.render(c, func(w io.Writer) {
		row(w, "ID:", c.ID)
		row(w, "Name:", c.Name)
		row(w, "Alias:", c.Alias)
		row(w, "Crime:", c.CrimeType)
		row(w, "Status:", c.Status)
		row(w, "Danger:", c.DangerLevel)
		row(w, "Description:", c.Description)
		row(w, "Last seen:", c.LastSeenLocation)
		row(w, "Last seen date:", c.LastSeenDate)
		row(w, "Added:", c.AddedDate)
		if len(c.Encodings) == 0 {
			row(w, "Photos:", c.EncodingsCount)
			return
		}
		fmt.Fprintln(w)
		row(w, "ENCODING", "PRIMARY", "QUALITY", "POSE", "ADDED")
		for _, e := range c.Encodings {
			row(w, e.ID, e.IsPrimary, e.QualityScore, e.PoseType, e.CreatedAt)
		}
	})
}
