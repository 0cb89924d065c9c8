// Package core has core logic for reconstructing line ownership from p4 annotate.
package core

import (
	"bytes"
	"context"
	"io"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/internal/outwriter"
	"github.com/huangsam/whodunit/schema"
)

// ExecutorFunc defines the function signature for executing a whodunit command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.P4Client, mgr contract.CacheManager) error

// ExecuteWhodunit annotates every configured file in order and writes one report per file.
// The first failure aborts the run; reports of earlier files have already been written.
func ExecuteWhodunit(ctx context.Context, cfg *contract.Config, client contract.P4Client, mgr contract.CacheManager) error {
	log := contract.NewLogger(cfg.Verbosity, contract.LogOutput)
	ow := outwriter.NewOutWriter(cfg, log)
	return ow.Open(func(w io.Writer) error {
		for _, path := range cfg.Files {
			report, err := AnnotateFile(ctx, client, ownerStore(mgr), log, path)
			if err != nil {
				return err
			}
			if err := ow.WriteReport(w, report.Annotation, report.Records, report.Widths); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExecuteSummary annotates every configured file in order and writes an owner table per file.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, client contract.P4Client, mgr contract.CacheManager) error {
	log := contract.NewLogger(cfg.Verbosity, contract.LogOutput)
	ow := outwriter.NewOutWriter(cfg, log)
	return ow.Open(func(w io.Writer) error {
		for _, path := range cfg.Files {
			report, err := AnnotateFile(ctx, client, ownerStore(mgr), log, path)
			if err != nil {
				return err
			}
			if err := ow.WriteSummary(w, Summarize(report.Annotation, report.Records)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AnnotateFile runs annotate for one file and attributes every line to its owners.
// Owner lookups are memoized for this file only.
func AnnotateFile(ctx context.Context, client contract.P4Client, store contract.OwnerStore, log *contract.Logger, path string) (*schema.FileReport, error) {
	out, err := client.Annotate(ctx, path)
	if err != nil {
		return nil, err
	}
	log.V(1, "file: %s", path)
	log.V(1, "num lines = %d", bytes.Count(out, []byte("\n"))+1)

	ann, err := ParseAnnotation(path, out)
	if err != nil {
		return nil, err
	}
	log.V(1, "latest change: %d", ann.LatestChange)

	resolver := NewOwnerResolver(client, store, log)
	records, widths, err := BuildRecords(ctx, ann, resolver)
	if err != nil {
		return nil, err
	}
	log.V(1, "resolved %d owners for %d records", resolver.cache.Len(), len(records))

	return &schema.FileReport{Annotation: ann, Records: records, Widths: widths}, nil
}

// RenderReport returns the report of a single file as text.
func RenderReport(ctx context.Context, client contract.P4Client, mgr contract.CacheManager, path string) (string, error) {
	report, err := AnnotateFile(ctx, client, ownerStore(mgr), nil, path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	opts := outwriter.ReportOptions{UseColors: false}
	if err := outwriter.WriteReport(&buf, report.Annotation, report.Records, report.Widths, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderSummary returns the owner table of a single file as text.
func RenderSummary(ctx context.Context, client contract.P4Client, mgr contract.CacheManager, path string) (string, error) {
	report, err := AnnotateFile(ctx, client, ownerStore(mgr), nil, path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	opts := outwriter.ReportOptions{UseColors: false}
	if err := outwriter.WriteSummary(&buf, Summarize(report.Annotation, report.Records), opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ownerStore returns the durable owner store, if any.
func ownerStore(mgr contract.CacheManager) contract.OwnerStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetOwnerStore()
}
