package formatter

import (
	"reflect"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/paragraph"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/section"
)

// Options configures every stage of the formatter.
type Options struct {
	Normalizer      normalizer.Config
	Paragraph       paragraph.Config
	SpeakerDuration float64
	SectionDuration float64
	Titles          section.TitleRules
	Content         section.ContentRules
	Render          render.Options
	AddSummaries    bool
}

// DefaultOptions returns the default thresholds and keyword tables.
func DefaultOptions() Options {
	return Options{
		Normalizer:      normalizer.DefaultConfig(),
		Paragraph:       paragraph.DefaultConfig(),
		SpeakerDuration: paragraph.DefaultSpeakerDuration,
		SectionDuration: section.DefaultDuration,
		Titles:          section.DefaultTitleRules(),
		Content:         section.DefaultContentRules(),
	}
}

type implFormatter struct {
	opts       Options
	summarizer section.Summarizer
	logger     logger.Logger
}

// New creates a Formatter. summarizer may be nil, including a nil pointer
// of a concrete type.
func New(opts Options, summarizer section.Summarizer, log logger.Logger) (Formatter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if isNil(summarizer) {
		summarizer = nil
	}
	if log == nil {
		log = logger.Nop()
	}
	return &implFormatter{
		opts:       opts,
		summarizer: summarizer,
		logger:     log,
	}, nil
}

func isNil(s section.Summarizer) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
