// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/facetrack/internal/authz"
	"github.com/tomtom215/facetrack/internal/models"
	"github.com/tomtom215/facetrack/internal/services"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users and invitations (admin only)",
	}
	cmd.AddCommand(newAdminUsersCmd(a), newAdminInvitationsCmd(a))
	return cmd
}

func newAdminUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and update user accounts",
		Long: `List and update user accounts.

Examples:
  facetrack admin users list --role operator
  facetrack admin users update 4 --role admin
  facetrack admin users deactivate 4`,
	}

	var q services.UserQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjUsers, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Admin.Users(ctx, q)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				row(w, "ID", "USERNAME", "EMAIL", "ROLE", "ACTIVE", "CREATED")
				for i := range out.Users {
					u := &out.Users[i]
					row(w, u.ID, u.Username, u.Email, u.Role, u.IsActive, u.CreatedAt)
				}
				pageFooter(w, out.CurrentPage, out.Pages, out.Total)
			})
		}),
	}
	list.Flags().IntVar(&q.Page, "page", 1, "Page number")
	list.Flags().IntVar(&q.PerPage, "per-page", services.DefaultAdminPerPage, "Users per page")
	list.Flags().StringVar(&q.Role, "role", "", "Filter by role: admin, operator, viewer")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjUsers, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.svc.Admin.User(ctx, id)
			if err != nil {
				return err
			}
			return a.renderUser(u)
		}),
	}

	var role, phone string
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's role, phone or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjUsers, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var upd models.UserUpdate
			fs := cmd.Flags()
			if fs.Changed("role") {
				upd.Role = &role
			}
			if fs.Changed("phone") {
				upd.Phone = &phone
			}
			if fs.Changed("active") {
				upd.IsActive = &active
			}
			u, err := a.svc.Admin.UpdateUser(ctx, id, upd)
			if err != nil {
				return err
			}
			return a.renderUser(u)
		}),
	}
	update.Flags().StringVar(&role, "role", "", "New role: admin, operator, viewer")
	update.Flags().StringVar(&phone, "phone", "", "New phone number")
	update.Flags().BoolVar(&active, "active", true, "Whether the account may log in")

	deactivate := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Prevent a user from logging in",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjUsers, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Admin.Deactivate(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	activate := &cobra.Command{
		Use:   "activate <id>",
		Short: "Allow a deactivated user to log in again",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjUsers, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Admin.Activate(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	cmd.AddCommand(list, get, update, deactivate, activate)
	return cmd
}

func newAdminInvitationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invitations",
		Aliases: []string{"invites"},
		Short:   "Invite new users",
		Long: `Create and manage invitation links. An invitation fixes the email and
role of the account created from it.

Examples:
  facetrack admin invitations create --email new@example.org --role operator
  facetrack admin invitations list --status pending
  facetrack admin invitations resend 9`,
	}

	var req models.InvitationRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an invitation link",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjInvitations, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res, err := a.svc.Admin.CreateInvitation(ctx, req)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) {
				row(w, "Invitation:", res.Invitation.ID)
				row(w, "Email:", res.Invitation.Email)
				row(w, "Role:", res.Invitation.Role)
				row(w, "Expires:", res.Invitation.ExpiresAt)
				row(w, "Link:", res.InvitationLink)
			})
		}),
	}
	create.Flags().StringVar(&req.Email, "email", "", "Invitee email (required)")
	create.Flags().StringVar(&req.Role, "role", models.RoleViewer, "Role: admin, operator, viewer")
	create.Flags().StringVar(&req.Department, "department", "", "Department")
	create.Flags().IntVar(&req.ExpiresInHours, "expires-in", models.DefaultInvitationHours, "Hours until the link expires")
	_ = create.MarkFlagRequired("email")

	var q services.InvitationQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List invitations",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjInvitations, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Admin.Invitations(ctx, q)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				row(w, "ID", "EMAIL", "ROLE", "STATE", "CREATED", "EXPIRES")
				for i := range out.Invitations {
					inv := &out.Invitations[i]
					row(w, inv.ID, inv.Email, inv.Role, inv.State(), inv.CreatedAt, inv.ExpiresAt)
				}
				pageFooter(w, out.CurrentPage, out.Pages, out.Total)
			})
		}),
	}
	list.Flags().IntVar(&q.Page, "page", 1, "Page number")
	list.Flags().IntVar(&q.PerPage, "per-page", services.DefaultAdminPerPage, "Invitations per page")
	list.Flags().StringVar(&q.Status, "status", services.InvitationsAll, "Filter: all, pending, used, expired")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Revoke an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjInvitations, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Admin.DeleteInvitation(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	resend := &cobra.Command{
		Use:   "resend <id>",
		Short: "Re-issue an invitation link",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjInvitations, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.svc.Admin.ResendInvitation(ctx, id)
			if err != nil {
				return err
			}
			if res.InvitationLink == "" {
				return errors.New("server returned no invitation link")
			}
			return a.message(res, fmt.Sprintf("%s\n%s", res.Message, res.InvitationLink))
		}),
	}

	cmd.AddCommand(create, list, del, resend)
	return cmd
}
