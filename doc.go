// Package mht2html converts archived chat transcripts (MHT/MHTML) into
// standalone HTML documents.
//
// # Quick Start
//
// Create a service and convert an archive:
//
//	svc := mht2html.New()
//
//	result, err := svc.Convert(ctx, mht2html.Input{
//	    Archive:   rawMHT,
//	    OutputDir: "out",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out/chat.html", result.HTML, 0644)
//
// Embedded resources (images, emoticons) are written under
// OutputDir/ResourceDir and the returned HTML references them by relative
// path. Non-fatal problems (a part that could not be decoded, a cid:
// reference with no matching part) are collected in result.Warnings rather
// than aborting the run.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Archive parsing (MIME multipart container, transfer-encoding decode,
//     charset-aware decode of the HTML root)
//  2. Blank-record filling (placeholder text for empty transcript records)
//  3. Style normalization (inline style attributes deduplicated into CSS
//     classes collected into one consolidated <style> block)
//  4. Resource extraction (parallel, bounded worker pool)
//  5. Reference rewriting (cid: and Content-Location references point at
//     the extracted files)
//  6. Serialization
//
// Only resource extraction runs concurrently; every stage that touches the
// document tree is single-threaded and strictly ordered.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := mht2html.New(
//	    mht2html.WithWorkers(8),
//	    mht2html.WithPlaceholder("[no content]"),
//	    mht2html.WithRecordSelector(`div[style='padding-left:20px;']`),
//	)
//
// A progress callback can observe extraction as it happens:
//
//	svc := mht2html.New(mht2html.WithProgress(func(ev mht2html.ResourceEvent) {
//	    fmt.Printf("%d/%d %s\n", ev.Done, ev.Total, ev.Path)
//	}))
//
// The callback may be invoked from multiple goroutines.
package mht2html
