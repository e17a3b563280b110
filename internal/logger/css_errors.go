package logger

import "fmt"

// CSSErrorCode identifies the kind of validation problem the sanitizer
// found while walking a stylesheet or collecting it from the DOM. These
// are exactly the error codes exposed to the ValidationErrorSink in the
// spec's external-interfaces section.
type CSSErrorCode string

const (
	ErrIllegalAtRule           CSSErrorCode = "illegal_css_at_rule"
	ErrIllegalImportRule       CSSErrorCode = "illegal_css_import_rule"
	ErrIllegalProperty         CSSErrorCode = "illegal_css_property"
	ErrIllegalImportant        CSSErrorCode = "illegal_css_important"
	ErrUnrecognizedCSS         CSSErrorCode = "unrecognized_css"
	ErrCSSParseError           CSSErrorCode = "css_parse_error"
	ErrTooMuchCSS              CSSErrorCode = "too_much_css"
	ErrBadFileExtension        CSSErrorCode = "amp_css_bad_file_extension"
	ErrPathNotFound            CSSErrorCode = "amp_css_path_not_found"
	ErrStylesheetFileReadError CSSErrorCode = "stylesheet_file_read_error"
	ErrMissingBodyElement      CSSErrorCode = "missing_body_element"
)

// CSSValidationError is the record delivered to a ValidationErrorSink: a
// code, an optional human-readable message, the offending property name
// and/or value when the code is illegal_css_property, the at-rule name
// when the code is illegal_css_at_rule, the overage in bytes when the
// code is too_much_css, and the DOM node the error should be attributed
// to. Node is untyped here so this leaf package never has to import the
// DOM package; callers pass their own node handle through unchanged.
//
// Source and Offset, when Source is non-empty, locate the error within
// the stylesheet text it came from (a byte offset into Source), so it
// can be reported through Log/Msg with a real line/column instead of a
// bare message.
type CSSValidationError struct {
	Code          CSSErrorCode
	Message       string
	PropertyName  string
	PropertyValue string
	AtRuleName    string
	OverageBytes  int
	Node          interface{}
	Source        string
	Offset        int
}

// DefaultMessage returns a human-readable description of e for callers
// that didn't set Message explicitly.
func (e CSSValidationError) DefaultMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Code {
	case ErrIllegalAtRule:
		return fmt.Sprintf("at-rule \"@%s\" is not allowed here", e.AtRuleName)
	case ErrIllegalImportRule:
		return "\"@import\" is never allowed"
	case ErrIllegalProperty:
		return fmt.Sprintf("property %q is not allowed", e.PropertyName)
	case ErrIllegalImportant:
		return fmt.Sprintf("\"!important\" is not allowed on %q here", e.PropertyName)
	case ErrUnrecognizedCSS:
		return "unrecognized CSS construct"
	case ErrCSSParseError:
		return "CSS failed to parse"
	case ErrTooMuchCSS:
		return fmt.Sprintf("stylesheet exceeds its byte budget by %d bytes", e.OverageBytes)
	case ErrBadFileExtension:
		return "stylesheet href has an unsupported file extension"
	case ErrPathNotFound:
		return "stylesheet href could not be resolved to a local file"
	case ErrStylesheetFileReadError:
		return "stylesheet file could not be read"
	case ErrMissingBodyElement:
		return "document has no <body> to hold amp-keyframes styles"
	default:
		return string(e.Code)
	}
}

// AsMsg converts e into a Log message: an error-kind Msg with a
// Location derived from Source/Offset when Source is set, nil otherwise.
func (e CSSValidationError) AsMsg(prettyPath string) Msg {
	var source *Source
	if e.Source != "" {
		source = &Source{PrettyPath: prettyPath, Contents: e.Source}
	}
	return Msg{
		Kind: Error,
		Data: RangeData(source, Range{Loc: Loc{Start: int32(e.Offset)}}, e.DefaultMessage()),
	}
}

// CSSValidationSink receives CSSValidationErrors in encounter order, each
// tagged with its origin node, as errors are found (spec §5 "Validation
// errors are reported in encounter order").
type CSSValidationSink interface {
	ReportCSSError(CSSValidationError)
}

// CSSValidationSinkFunc adapts a plain function to CSSValidationSink.
type CSSValidationSinkFunc func(CSSValidationError)

func (f CSSValidationSinkFunc) ReportCSSError(e CSSValidationError) { f(e) }

// DiscardCSSValidation is a sink that drops every error; useful in tests
// that don't care about the validation channel.
var DiscardCSSValidation CSSValidationSink = CSSValidationSinkFunc(func(CSSValidationError) {})

// Telemetry receives a single named duration measurement per pass, e.g.
// ("css_sanitize", elapsed, "time spent parsing and filtering CSS").
type Telemetry interface {
	AddTiming(name string, durationSeconds float64, description string)
}

// TelemetryFunc adapts a plain function to Telemetry.
type TelemetryFunc func(name string, durationSeconds float64, description string)

func (f TelemetryFunc) AddTiming(name string, durationSeconds float64, description string) {
	f(name, durationSeconds, description)
}

// DiscardTelemetry is a Telemetry that drops every measurement.
var DiscardTelemetry Telemetry = TelemetryFunc(func(string, float64, string) {})
