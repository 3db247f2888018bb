package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/dustin/go-humanize"
)

const listTimeLayout = "2006-01-02 15:04"

func (a *App) Report(ctx context.Context) error {
	r, err := inputReport(a.reader, a.out, a.reporter, a.now())
	if err != nil {
		a.log.Error(ctx, "report input aborted", "error", err)
		return err
	}
	photos, err := inputPhotos(a.reader, a.out, r)
	if err != nil {
		a.log.Error(ctx, "photo input aborted", "error", err)
		return err
	}

	outcome, err := a.reports.Submit(ctx, models.Draft{Report: r, Photos: photos})
	if err != nil {
		printlnFn("Report not saved:", err)
		return err
	}
	a.reporter = r.ReporterName

	switch outcome {
	case models.SubmittedLive:
		printlnFn("Survey submitted online successfully!")
	case models.SubmitQueued:
		n, _ := a.queue.Count(ctx)
		printlnFn(fmt.Sprintf("Offline mode: report saved locally (%d queued).", n))
	}
	return nil
}

func (a *App) Queue(ctx context.Context) error {
	info, err := a.reports.Queue(ctx)
	if err != nil {
		printlnFn("Cannot read the offline queue:", err)
		return err
	}
	if len(info.Records) == 0 {
		printlnFn("No queued offline submissions.")
		return nil
	}

	printlnFn(fmt.Sprintf("%d queued submission(s), %d photo(s) stored (%s):",
		len(info.Records), info.Attachments, humanize.Bytes(uint64(info.AttachmentsBytes))))
	for i, rec := range info.Records {
		printlnFn(fmt.Sprintf("%3d. %s  %-11s %s  %d photo(s)", i+1,
			rec.CreatedAt.Local().Format(listTimeLayout),
			rec.Fields["report_type"].String(),
			rec.Fields["reporter_name"].String(),
			len(rec.AttachmentIDs())))
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	printlnFn("Checking the server...")
	res, err := a.sync.DrainQueue(ctx)
	if err != nil {
		printlnFn("Offline submission failed:", err)
		return err
	}
	printlnFn(res.Summary())
	return nil
}

func (a *App) History(ctx context.Context) error {
	prompt := "Reporter email"
	if a.reporter != "" {
		prompt = fmt.Sprintf("Reporter email (Enter for %s)", a.reporter)
	}
	email, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = a.reporter
	}
	if email == "" {
		printlnFn("Please enter your email to retrieve history.")
		return nil
	}

	items, err := a.reports.History(ctx, email)
	if errors.Is(err, client.ErrUnavailable) {
		printlnFn("Offline. Please retrieve submission history when back online.")
		return err
	}
	if err != nil {
		printlnFn("Error fetching history:", err)
		return err
	}
	a.reporter = email

	if len(items) == 0 {
		printlnFn("No submission history found for this email.")
		return nil
	}
	for _, it := range items {
		line := fmt.Sprintf("#%-6d %s  %-11s (%.5f, %.5f)", it.ID, it.Timestamp, it.ReportType, it.Latitude, it.Longitude)
		if it.Ownership != "" {
			line += "  " + it.Ownership
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	n, err := a.queue.Count(ctx)
	if err != nil {
		printlnFn("Cannot read the offline queue:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Mode:   %s (link %s)", a.mode(), a.config.LinkAddr()))
	printlnFn("Server:", a.config.ServerURL)
	printlnFn("Queued:", n)
	return nil
}
