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

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Read and manage alerts",
		Long: `Read and manage detection and system alerts.

Examples:
  facetrack notifications list --unread
  facetrack notifications count
  facetrack notifications read 15
  facetrack notifications read-all`,
	}

	var q services.NotificationQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjNotifications, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out, err := a.svc.Notifications.List(ctx, q)
			if err != nil {
				return err
			}
			return a.render(out, func(w io.Writer) {
				if len(out.Notifications) == 0 {
					fmt.Fprintln(w, "No notifications")
					return
				}
				row(w, "ID", "SEVERITY", "CATEGORY", "READ", "TITLE", "CREATED")
				for i := range out.Notifications {
					n := &out.Notifications[i]
					row(w, n.ID, n.Severity, n.Category, n.Acknowledged, n.Headline(), n.CreatedAt)
				}
				fmt.Fprintf(w, "\n%d total, %d unread\n", out.Total, out.UnreadCount)
			})
		}),
	}
	list.Flags().BoolVar(&q.UnreadOnly, "unread", false, "Only unread notifications")
	list.Flags().IntVar(&q.Limit, "limit", services.DefaultNotificationLimit, "Maximum notifications")
	list.Flags().StringVar(&q.Severity, "severity", "", "Filter: info, warning, critical")
	list.Flags().StringVar(&q.Category, "category", "", "Filter: detection, criminal_mgmt, system, operational")

	count := &cobra.Command{
		Use:   "count",
		Short: "Show the unread count",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjNotifications, authz.ActRead, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			n, err := a.svc.Notifications.UnreadCount(ctx)
			if err != nil {
				return err
			}
			return a.render(models.UnreadCount{UnreadCount: n}, func(w io.Writer) {
				fmt.Fprintf(w, "%d unread\n", n)
			})
		}),
	}

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjNotifications, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.svc.Notifications.MarkRead(ctx, id)
			if err != nil {
				return err
			}
			return a.render(n, func(w io.Writer) {
				fmt.Fprintf(w, "Marked %d as read: %s\n", n.ID, n.Headline())
			})
		}),
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjNotifications, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			msg, err := a.svc.Notifications.MarkAllRead(ctx)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: a.guarded(authz.ObjNotifications, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := a.svc.Notifications.Delete(ctx, id)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	clearOld := &cobra.Command{
		Use:   "clear-old",
		Short: "Delete old read notifications",
		Args:  cobra.NoArgs,
		RunE: a.guarded(authz.ObjNotifications, authz.ActWrite, func(ctx context.Context, cmd *cobra.Command, args []string) error {
			msg, err := a.svc.Notifications.ClearOld(ctx)
			if err != nil {
				return err
			}
			return a.message(msg, msg.Message)
		}),
	}

	cmd.AddCommand(list, count, read, readAll, del, clearOld)
	return cmd
}
