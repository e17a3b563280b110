// Package ampcss is the public entry point: given an HTML document and
// a platform spec, it collects every reachable stylesheet, sanitizes
// and rewrites it, and emits the admitted amp-custom/amp-keyframes
// style elements back into the document.
package ampcss

import (
	"time"

	"github.com/ampgo/ampcss/internal/collector"
	"github.com/ampgo/ampcss/internal/dom"
	"github.com/ampgo/ampcss/internal/emitter"
	"github.com/ampgo/ampcss/internal/logger"
	"github.com/ampgo/ampcss/internal/parsecache"
	"github.com/ampgo/ampcss/internal/platformspec"
	"github.com/ampgo/ampcss/internal/resolver"
)

// ValidationError mirrors logger.CSSValidationError without exposing
// the Node field's concrete DOM type to callers outside the module.
type ValidationError struct {
	Code          string
	Message       string
	PropertyName  string
	PropertyValue string
	AtRuleName    string
	OverageBytes  int
}

// prettyPathForError gives a validation error's source a stable label,
// since the sanitizer doesn't track a real file path per inline
// <style>/<link>/style= origin. Unused when e.Source is empty (AsMsg
// then omits the location entirely).
func prettyPathForError(e logger.CSSValidationError) string {
	return "<stylesheet>"
}

// Options configures a single sanitization pass.
type Options struct {
	// Spec provides the per-CDATA-kind rules. Defaults to
	// platformspec.Default() when nil.
	Spec *platformspec.Spec

	// Roots are the local directories <link href> may resolve into.
	Roots []string

	// FileExists checks whether a resolved local path is present.
	// Required when the document contains <link rel=stylesheet>.
	FileExists func(path string) bool

	// ReadFile reads a resolved local path's contents. Required under
	// the same condition as FileExists.
	ReadFile func(path string) (string, error)

	// Cache is the process-wide parse cache to use. A fresh one is
	// created when nil; callers processing many documents should share
	// one across calls.
	Cache *parsecache.Cache

	// Telemetry, when set, receives one css_sanitize timing per call.
	Telemetry logger.Telemetry
}

// Result is the outcome of a sanitization pass.
type Result struct {
	HTML   string
	Errors []ValidationError

	// Log holds every validation error rendered as a logger.Msg, in the
	// sorted order logger.Log.Done() produces. Errors stays in encounter
	// order for callers that need that; Log is for callers that want to
	// print the logger's diagnostic format (e.g. by replaying each Msg
	// through a logger.NewStderrLog, as cmd/ampcss does).
	Log []logger.Msg
}

type fileReaderFunc func(path string) (string, error)

func (f fileReaderFunc) ReadFile(path string) (string, error) { return f(path) }

// Sanitize runs the full pipeline over html and returns the rewritten
// document along with every validation error encountered, in
// encounter order.
func Sanitize(html string, opts Options) (Result, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return Result{}, err
	}

	spec := opts.Spec
	if spec == nil {
		spec = platformspec.Default()
	}
	cache := opts.Cache
	if cache == nil {
		cache = parsecache.New()
	}

	fileExists := opts.FileExists
	if fileExists == nil {
		fileExists = func(string) bool { return false }
	}
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = func(string) (string, error) { return "", nil }
	}

	log := logger.NewDeferLog()
	var errs []ValidationError
	sink := logger.CSSValidationSinkFunc(func(e logger.CSSValidationError) {
		log.AddMsg(e.AsMsg(prettyPathForError(e)))
		errs = append(errs, ValidationError{
			Code:          string(e.Code),
			Message:       e.DefaultMessage(),
			PropertyName:  e.PropertyName,
			PropertyValue: e.PropertyValue,
			AtRuleName:    e.AtRuleName,
			OverageBytes:  e.OverageBytes,
		})
	})

	pipeline := &collector.Pipeline{
		Cache:    cache,
		Spec:     spec,
		Resolver: resolver.New(opts.Roots, fileExists),
		Files:    fileReaderFunc(readFile),
		Sink:     sink,
	}

	start := time.Now()
	custom, keyframes := pipeline.Run(doc)
	if opts.Telemetry != nil {
		opts.Telemetry.AddTiming("css_sanitize", time.Since(start).Seconds(), "time spent parsing and filtering CSS")
	}
	emitter.EmitCustom(doc, custom)
	emitter.EmitKeyframes(doc, keyframes, sink)

	out, err := doc.Render()
	if err != nil {
		return Result{}, err
	}
	log.AlmostDone()
	return Result{HTML: out, Errors: errs, Log: log.Done()}, nil
}
