package mht2html

import (
	"context"
	"crypto/sha256"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/5ime/mht2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// contentTypeExtensions pins extensions for the image types that dominate
// chat archives; mime.ExtensionsByType is not stable for these across
// platforms.
var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// resourceMap maps content identifiers and content locations to extracted
// file paths (relative to the output directory). Built by the extractor,
// read-only for the rewriter.
type resourceMap map[string]string

// add registers every reference form a part can be addressed by.
func (m resourceMap) add(p *Part, relPath string) {
	if p.ContentLocation != "" {
		m[p.ContentLocation] = relPath
	}
	if p.ContentID != "" {
		m[p.ContentID] = relPath
		m["cid:"+p.ContentID] = relPath
	}
}

// resolve looks up a reference, with and without its cid: scheme prefix.
func (m resourceMap) resolve(ref string) (string, bool) {
	if p, ok := m[ref]; ok {
		return p, true
	}
	if id, found := strings.CutPrefix(ref, "cid:"); found {
		if p, ok := m[id]; ok {
			return p, true
		}
	}
	return "", false
}

// extractJob is one planned file write. Naming happens before dispatch, so
// concurrent workers never contend on a path.
type extractJob struct {
	body    []byte
	absPath string
	relPath string
}

// plannedResource links a part to the job that writes its file. Several
// parts with byte-identical payloads share one job.
type plannedResource struct {
	part    Part
	relPath string
	srcJob  int
	reused  bool
}

// extractor writes archive resources to disk with a bounded worker pool.
type extractor struct {
	resourceAbs string // on-disk directory for extracted files
	resourceRel string // forward-slash directory used in rewritten HTML
	workers     int
	progress    func(ResourceEvent)
}

// run extracts the given parts. It returns the successfully extracted
// resources in archive order, the reference map for the rewriter, and any
// per-part warnings. A failing part never aborts its siblings.
func (e *extractor) run(ctx context.Context, parts []Part) ([]Resource, resourceMap, []Warning) {
	var (
		warnings []Warning
		planned  []plannedResource
		jobs     []extractJob
		done     atomic.Int64
	)
	total := len(parts)

	emit := func(relPath string, err error) {
		if e.progress == nil {
			return
		}
		e.progress(ResourceEvent{Done: int(done.Add(1)), Total: total, Path: relPath, Err: err})
	}

	// Plan pass: single-threaded naming and content dedup, so the output
	// is deterministic regardless of worker scheduling.
	byHash := make(map[[sha256.Size]byte]int)
	used := make(map[string]struct{})
	for i := range parts {
		p := parts[i]
		if p.DecodeErr != nil {
			warnings = append(warnings, Warning{Kind: WarnUnsupportedEncoding, Ref: p.Identity(), Err: p.DecodeErr})
			emit("", p.DecodeErr)
			continue
		}

		sum := sha256.Sum256(p.Body)
		if j, ok := byHash[sum]; ok {
			planned = append(planned, plannedResource{part: p, relPath: jobs[j].relPath, srcJob: j, reused: true})
			emit(jobs[j].relPath, nil)
			continue
		}

		name := e.uniqueName(&p, used)
		used[name] = struct{}{}
		jobs = append(jobs, extractJob{
			body:    p.Body,
			absPath: filepath.Join(e.resourceAbs, name),
			relPath: path.Join(filepath.ToSlash(e.resourceRel), name),
		})
		byHash[sum] = len(jobs) - 1
		planned = append(planned, plannedResource{part: p, relPath: jobs[len(jobs)-1].relPath, srcJob: len(jobs) - 1})
	}

	errs := e.writeAll(ctx, jobs, emit)

	// Join point: every write has completed (or failed) before the map is
	// considered final.
	resources := make([]Resource, 0, len(planned))
	resMap := make(resourceMap)
	for _, pl := range planned {
		if err := errs[pl.srcJob]; err != nil {
			warnings = append(warnings, Warning{Kind: WarnResourceWrite, Ref: pl.part.Identity(), Err: err})
			continue
		}
		resources = append(resources, Resource{
			ContentID:       pl.part.ContentID,
			ContentLocation: pl.part.ContentLocation,
			Path:            pl.relPath,
			Size:            len(pl.part.Body),
			Reused:          pl.reused,
		})
		resMap.add(&pl.part, pl.relPath)
	}
	return resources, resMap, warnings
}

// writeAll dispatches the planned writes across the worker pool and blocks
// until all of them have finished. Returned errors are indexed by job.
func (e *extractor) writeAll(ctx context.Context, jobs []extractJob, emit func(string, error)) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}

	if err := os.MkdirAll(e.resourceAbs, dirPermissions); err != nil {
		err = fmt.Errorf("%w: %v", ErrResourceWrite, err)
		for i := range jobs {
			errs[i] = err
			emit(jobs[i].relPath, err)
		}
		return errs
	}

	concurrency := e.workers
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	var wg sync.WaitGroup
	jobCh := make(chan int, len(jobs))
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					emit(jobs[idx].relPath, err)
					continue
				}
				err := os.WriteFile(jobs[idx].absPath, jobs[idx].body, filePermissions)
				if err != nil {
					err = fmt.Errorf("%w: %v", ErrResourceWrite, err)
				}
				errs[idx] = err
				emit(jobs[idx].relPath, err)
			}
		}()
	}

	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()
	return errs
}

// uniqueName derives a collision-free filename for a part: the sanitized
// Content-Location basename (or the part index) plus an extension from the
// MIME type, with a numeric suffix when distinct payloads collide.
func (e *extractor) uniqueName(p *Part, used map[string]struct{}) string {
	base := resourceBaseName(p)
	ext := extensionForType(p.ContentType)

	name := base + ext
	for n := 1; ; n++ {
		if _, taken := used[name]; !taken {
			return name
		}
		name = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
}

// resourceBaseName extracts a safe filename stem from the part's content
// location, falling back to the part index.
func resourceBaseName(p *Part) string {
	loc := strings.TrimSpace(p.ContentLocation)
	if loc != "" {
		loc = path.Base(strings.ReplaceAll(loc, "\\", "/"))
		loc = strings.TrimSuffix(loc, path.Ext(loc))
		loc = sanitizeBaseName(loc)
	}
	if loc == "" {
		return fmt.Sprintf("part-%d", p.Index)
	}
	return loc
}

// sanitizeBaseName keeps letters, digits, dashes, underscores and dots;
// everything else becomes a dash. Leading dots are dropped so derived
// names cannot be hidden files.
func sanitizeBaseName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, s)
	s = strings.TrimLeft(s, ".")
	if strings.Trim(s, "-.") == "" {
		return ""
	}
	return s
}

// extensionForType infers a file extension from a MIME type.
func extensionForType(contentType string) string {
	if ext, ok := contentTypeExtensions[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}

	// Last resort: the subtype, minus any structured-syntax suffix
	// (image/svg+xml -> xml).
	sub := contentType[strings.LastIndex(contentType, "/")+1:]
	if i := strings.LastIndex(sub, "+"); i >= 0 {
		sub = sub[i+1:]
	}
	if fileutil.ValidateExtension(sub) != nil {
		return ".bin"
	}
	return "." + sub
}
