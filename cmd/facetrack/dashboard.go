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
)

// dashboardCmd builds a read-only dashboard subcommand.
func (a *app) dashboardCmd(use, short string, fn runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  a.guarded(authz.ObjDashboard, authz.ActRead, fn),
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard statistics and analytics",
		Long: `Show dashboard statistics and analytics. All aggregates are computed by
the backend.

Examples:
  facetrack dashboard stats
  facetrack dashboard timeline --days 30
  facetrack dashboard report --days 90 -o yaml`,
	}

	stats := a.dashboardCmd("stats", "Headline counts", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		s, err := a.svc.Dashboard.Stats(ctx)
		if err != nil {
			return err
		}
		return a.render(s, func(w io.Writer) {
			row(w, "Criminals:", s.TotalCriminals)
			row(w, "Wanted:", s.WantedCriminals)
			row(w, "Arrested:", s.Arrested)
			row(w, "Detections:", s.TotalDetections)
			row(w, "Pending review:", s.PendingVerifications)
			row(w, "Verified:", s.VerifiedDetections)
			row(w, "False positives:", s.FalsePositives)
			row(w, "Accuracy:", fmt.Sprintf("%.2f%%", s.AccuracyRate))
			row(w, "Alerts:", s.TotalAlerts)
			row(w, "Users:", s.TotalUsers)
			row(w, "Videos:", fmt.Sprintf("%d (%d processing, %d completed)", s.TotalVideos, s.VideosProcessing, s.VideosCompleted))
			row(w, "Video detections:", s.TotalVideoDetections)
		})
	})

	recent := a.dashboardCmd("recent", "Most recent detections", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.RecentDetections(ctx)
		if err != nil {
			return err
		}
		return a.render(list, func(w io.Writer) {
			row(w, "ID", "CRIMINAL", "CRIME", "CONFIDENCE", "STATUS", "LOCATION", "DETECTED")
			for i := range list {
				d := &list[i]
				row(w, d.ID, d.CriminalName, d.CrimeType, percent(d.ConfidenceScore), d.Status, d.Location, d.DetectedAt)
			}
		})
	})

	var topLimit int
	top := a.dashboardCmd("top-criminals", "Most detected criminals", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.TopCriminals(ctx, topLimit)
		if err != nil {
			return err
		}
		return a.renderCriminalActivity(list)
	})
	top.Flags().IntVar(&topLimit, "limit", 5, "Number of criminals")

	var timelineDays int
	timeline := a.dashboardCmd("timeline", "Detections per day", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		t, err := a.svc.Dashboard.DetectionsTimeline(ctx, timelineDays)
		if err != nil {
			return err
		}
		return a.render(t, func(w io.Writer) {
			row(w, "DATE", "DETECTIONS")
			for _, p := range t.Timeline {
				row(w, p.Date, p.Count)
			}
		})
	})
	timeline.Flags().IntVar(&timelineDays, "days", 7, "Number of days")

	breakdown := a.dashboardCmd("status-breakdown", "Detections by review status", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.StatusBreakdown(ctx)
		if err != nil {
			return err
		}
		return a.renderStatusCounts(list)
	})

	confidence := a.dashboardCmd("confidence", "Detections by confidence range", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.ConfidenceDistribution(ctx)
		if err != nil {
			return err
		}
		return a.render(list, func(w io.Writer) {
			row(w, "RANGE", "COUNT")
			for _, b := range list {
				row(w, b.Range, b.Count)
			}
		})
	})

	var locLimit int
	locations := a.dashboardCmd("locations", "Detections per location", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.LocationStats(ctx, locLimit)
		if err != nil {
			return err
		}
		return a.render(list, func(w io.Writer) {
			row(w, "LOCATION", "COUNT")
			for _, l := range list {
				row(w, l.Location, l.Count)
			}
		})
	})
	locations.Flags().IntVar(&locLimit, "limit", 10, "Number of locations")

	videoAnalytics := a.dashboardCmd("video-analytics", "Video processing breakdown", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		v, err := a.svc.Dashboard.VideoAnalytics(ctx)
		if err != nil {
			return err
		}
		return a.render(v, func(w io.Writer) {
			row(w, "Avg processing:", fmt.Sprintf("%.1fs", v.AvgProcessingTimeSeconds))
			row(w, "Total processing:", fmt.Sprintf("%.1fs", v.TotalProcessingTimeSeconds))
			row(w, "Faces detected:", v.TotalFacesDetected)
			row(w, "Criminals matched:", v.TotalCriminalsMatched)
			for _, s := range v.StatusBreakdown {
				row(w, s.Status+":", s.Count)
			}
		})
	})

	alerts := a.dashboardCmd("alerts", "Alert delivery statistics", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		s, err := a.svc.Dashboard.AlertStats(ctx)
		if err != nil {
			return err
		}
		return a.render(s, func(w io.Writer) {
			row(w, "STATUS", "COUNT")
			for _, c := range s.StatusBreakdown {
				row(w, c.Status, c.Count)
			}
			if len(s.Timeline) > 0 {
				fmt.Fprintln(w)
				row(w, "DATE", "ALERTS")
				for _, p := range s.Timeline {
					row(w, p.Date, p.Count)
				}
			}
		})
	})

	var reportDays int
	report := a.dashboardCmd("report", "Analytics report for a period", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		r, err := a.svc.Dashboard.Report(ctx, reportDays)
		if err != nil {
			return err
		}
		return a.render(r, func(w io.Writer) {
			row(w, "Period:", fmt.Sprintf("%s to %s (%d days)", r.Period.StartDate, r.Period.EndDate, r.Period.Days))
			row(w, "Detections:", r.Summary.TotalDetections)
			row(w, "Unique criminals:", r.Summary.UniqueCriminals)
			row(w, "Alerts sent:", r.Summary.AlertsSent)
			row(w, "Accuracy:", fmt.Sprintf("%.2f%%", r.Performance.AccuracyRate))
			row(w, "False positive rate:", fmt.Sprintf("%.2f%%", r.Performance.FalsePositiveRate))
			if len(r.TopLocations) > 0 {
				fmt.Fprintln(w)
				row(w, "LOCATION", "COUNT")
				for _, l := range r.TopLocations {
					row(w, l.Location, l.Count)
				}
			}
		})
	})
	report.Flags().IntVar(&reportDays, "days", 30, "Report period in days")

	performance := a.dashboardCmd("performance", "Recognition accuracy metrics", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		p, err := a.svc.Dashboard.Performance(ctx)
		if err != nil {
			return err
		}
		return a.render(p, func(w io.Writer) {
			row(w, "Accuracy:", fmt.Sprintf("%.2f%%", p.AccuracyRate))
			row(w, "False positive rate:", fmt.Sprintf("%.2f%%", p.FalsePositiveRate))
			row(w, "Reviewed:", p.TotalReviewed)
			row(w, "Avg confidence:", percent(p.AvgConfidenceAll))
			row(w, "Avg confidence (verified):", percent(p.AvgConfidenceVerified))
			row(w, "Avg confidence (false positive):", percent(p.AvgConfidenceFalsePositive))
			row(w, "Avg review time:", fmt.Sprintf("%.0fs", p.AvgResponseTimeSeconds))
		})
	})

	activity := a.dashboardCmd("activity", "Detection activity per criminal", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.Activity(ctx)
		if err != nil {
			return err
		}
		return a.renderCriminalActivity(list)
	})

	heatmap := a.dashboardCmd("heatmap", "Detection hotspots by location", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		list, err := a.svc.Dashboard.Locations(ctx)
		if err != nil {
			return err
		}
		return a.render(list, func(w io.Writer) {
			row(w, "LOCATION", "DETECTIONS", "CRIMINALS", "AVG CONFIDENCE")
			for _, l := range list {
				row(w, l.Location, l.TotalDetections, l.UniqueCriminals, percent(l.AvgConfidence))
			}
		})
	})

	patterns := a.dashboardCmd("patterns", "Detections by hour and weekday", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		p, err := a.svc.Dashboard.Patterns(ctx)
		if err != nil {
			return err
		}
		return a.render(p, func(w io.Writer) {
			row(w, "HOUR", "COUNT")
			for _, h := range p.HourlyPattern {
				row(w, fmt.Sprintf("%02d:00", h.Hour), h.Count)
			}
			fmt.Fprintln(w)
			row(w, "DAY", "COUNT")
			for _, d := range p.DailyPattern {
				row(w, d.Day, d.Count)
			}
		})
	})

	videoStats := a.dashboardCmd("video-stats", "Video processing averages", func(ctx context.Context, cmd *cobra.Command, args []string) error {
		s, err := a.svc.Dashboard.VideoStats(ctx)
		if err != nil {
			return err
		}
		return a.render(s, func(w io.Writer) {
			row(w, "Videos processed:", s.TotalVideosProcessed)
			row(w, "Frames processed:", s.TotalFramesProcessed)
			row(w, "Faces detected:", s.TotalFacesDetected)
			row(w, "Criminals matched:", s.TotalCriminalsMatched)
			row(w, "Avg processing time:", fmt.Sprintf("%.1fs", s.AvgProcessingTime))
			row(w, "Avg frames per video:", s.AvgFramesPerVideo)
			row(w, "Avg faces per video:", s.AvgFacesPerVideo)
		})
	})

	cmd.AddCommand(stats, recent, top, timeline, breakdown, confidence, locations,
		videoAnalytics, alerts, report, performance, activity, heatmap, patterns, videoStats)
	return cmd
}

func (a *app) renderStatusCounts(list []models.StatusCount) error {
	return a.render(list, func(w io.Writer) {
		row(w, "STATUS", "COUNT")
		for _, s := range list {
			row(w, s.Status, s.Count)
		}
	})
}

func (a *app) renderCriminalActivity(list []models.Criminal) error {
	return a.render(list, func(w io.Writer) {
		row(w, "ID", "NAME", "CRIME", "DANGER", "DETECTIONS", "LAST DETECTED")
		for i := range list {
			c := &list[i]
			row(w, c.ID, c.Name, c.CrimeType, c.DangerLevel, c.DetectionCount, c.LastDetected)
		}
	})
}
