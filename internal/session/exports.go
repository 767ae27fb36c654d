package session

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/export"
)

// TranscriptBaseName is the default file stem for transcript exports
const TranscriptBaseName = "transcript"

var encodeCSV = export.EncodeCSV

// ExportDataset encodes the current dataset and hands it to saver. An empty
// dataset is a no-op and returns an empty path. name defaults to
// export.<ext>.
func (e *Engine) ExportDataset(saver export.Saver, format, name string) (string, error) {
	ds := e.store.Snapshot().Dataset
	if ds.Empty() {
		return "", nil
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}
	data, err := export.EncodeDataset(exporter, ds)
	if err != nil {
		return "", &internal.ExportError{Format: format, Path: name, Err: err}
	}
	if name == "" {
		name = export.DefaultFileName(exporter)
	}
	return e.save(saver, name, data)
}

// SaveTranscript writes the whole transcript in the given format.
// name defaults to transcript.<ext>.
func (e *Engine) SaveTranscript(saver export.Saver, format, name string) (string, error) {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := exporter.ExportTranscript(e.store.Snapshot().Transcript, &buf); err != nil {
		return "", &internal.ExportError{Format: format, Path: name, Err: err}
	}
	if name == "" {
		name = TranscriptBaseName + "." + exporter.Extension()
	}
	return e.save(saver, name, buf.Bytes())
}

func (e *Engine) save(saver export.Saver, name string, data []byte) (string, error) {
	path, size, err := saver.Save(name, bytes.NewReader(data))
	if err != nil {
		e.log.record(internal.AgentExport, "error", err.Error())
		return "", err
	}
	e.log.record(internal.AgentExport, "saved", fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(size))))
	return path, nil
}

// RemoteExports lists the files the backend has already materialized.
// Like the other remote reads it skips the workflow gate and never touches
// the dataset; a failure still leaves a notice in the transcript.
func (e *Engine) RemoteExports(ctx context.Context) ([]string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	files, err := e.backend.ListExports(ctx)
	if err != nil {
		return nil, e.fail(internal.AgentExport, "Listing exports failed: "+err.Error(), err)
	}
	e.log.record(internal.AgentExport, "list", fmt.Sprintf("%d file(s) on server", len(files)))
	return files, nil
}

// FetchExport downloads a backend export and hands the bytes to saver
func (e *Engine) FetchExport(ctx context.Context, name string, saver export.Saver) (string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	body, _, err := e.backend.FetchExport(ctx, name)
	if err != nil {
		return "", e.fail(internal.AgentExport, fmt.Sprintf("Download of %s failed: %v", name, err), err)
	}
	defer body.Close()

	path, size, err := saver.Save(name, body)
	if err != nil {
		return "", e.fail(internal.AgentExport, fmt.Sprintf("Download of %s failed: %v", name, err), err)
	}
	e.log.record(internal.AgentExport, "fetch", fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(size))))
	return path, nil
}

// RemoteSources lists the sources the backend reports as ingested
func (e *Engine) RemoteSources(ctx context.Context) ([]string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	sources, err := e.backend.Sources(ctx)
	if err != nil {
		return nil, e.fail(internal.AgentScraper, "Listing sources failed: "+err.Error(), err)
	}
	e.log.record(internal.AgentScraper, "sources", fmt.Sprintf("%d source(s) on server", len(sources)))
	return sources, nil
}
