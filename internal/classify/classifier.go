package classify

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	"github.com/KaramelBytes/moviecorpus-cli/internal/logging"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
)

// Outcome distinguishes success, no recognizable genre, and transport failure.
type Outcome int

const (
	Classified Outcome = iota
	Unrecognized
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Classified:
		return "classified"
	case Unrecognized:
		return "unclassified"
	default:
		return "failed"
	}
}

// Result is the outcome of one classification. Label is Unclassified unless
// Outcome is Classified; Labels lists every genre found, primary first.
type Result struct {
	Outcome Outcome       `json:"outcome"`
	Label   string        `json:"label"`
	Labels  []string      `json:"labels,omitempty"`
	Raw     string        `json:"raw,omitempty"`
	Model   string        `json:"model"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`
}

// Options configures a Classifier. Zero values fall back to defaults, except
// Temperature, which is always sent.
type Options struct {
	Model       string
	Temperature float64
	Timeout     time.Duration

	// SummaryTokenLimit bounds the summary sent to the model; 0 disables truncation.
	SummaryTokenLimit int
	Vocabulary        *Vocabulary
}

const (
	DefaultModel   = "deepseek-r1:1.5b"
	DefaultTimeout = 120 * time.Second
)

// Classifier asks a chat runtime for a movie's genres.
type Classifier struct {
	rt   ai.Runtime
	opts Options
}

// New returns a Classifier over rt.
func New(rt ai.Runtime, opts Options) *Classifier {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Vocabulary == nil {
		opts.Vocabulary = Default()
	}
	return &Classifier{rt: rt, opts: opts}
}

// Vocabulary returns the vocabulary used for extraction and comparison.
func (c *Classifier) Vocabulary() *Vocabulary { return c.opts.Vocabulary }

// Classify sends summary to the model under the configured timeout. It never
// returns an error directly: failures are reported through Result.
func (c *Classifier) Classify(ctx context.Context, summary string) Result {
	res := Result{Outcome: Failed, Label: Unclassified, Model: c.opts.Model}
	if strings.TrimSpace(summary) == "" {
		res.Err = &ClassificationError{Model: c.opts.Model, Err: errors.New("summary is empty")}
		return res
	}

	cctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	msgs := BuildMessages(summary, c.opts.SummaryTokenLimit)
	logging.Debug().Str("model", c.opts.Model).Int("prompt_tokens", utils.CountTokens(msgs[1].Content)).Msg("classifying")
	start := time.Now()
	temperature := c.opts.Temperature
	resp, err := c.rt.Generate(cctx, ai.GenerateRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Temperature: &temperature,
	})
	res.Elapsed = time.Since(start)
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			res.Err = &ClassificationTimeout{Model: c.opts.Model, After: c.opts.Timeout}
		} else {
			res.Err = &ClassificationError{Model: c.opts.Model, Err: err}
		}
		logging.Warn().Err(res.Err).Str("model", c.opts.Model).Dur("elapsed", res.Elapsed).Msg("classification failed")
		return res
	}

	res.Raw = resp.Content()
	answer := StripReasoning(res.Raw)
	if answer == "" {
		res.Err = &ClassificationError{Model: c.opts.Model, Err: errors.New("model returned no answer")}
		return res
	}
	res.Labels = c.opts.Vocabulary.Find(answer)
	if len(res.Labels) == 0 {
		res.Outcome = Unrecognized
		logging.Debug().Str("answer", answer).Msg("no known genre in response")
		return res
	}
	res.Outcome = Classified
	res.Label = res.Labels[0]
	logging.Debug().Strs("labels", res.Labels).Dur("elapsed", res.Elapsed).Msg("classified")
	return res
}

var thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)

// StripReasoning removes <think> blocks from a model response. A closing tag
// without an opening one (the opening tag was part of the prompt) drops
// everything before it. An unterminated block keeps only its last line
// containing letters, which is where truncated reasoning models usually leave
// their answer.
func StripReasoning(raw string) string {
	out := thinkBlock.ReplaceAllString(raw, "")
	if i := strings.LastIndex(strings.ToLower(out), "</think>"); i >= 0 {
		out = out[i+len("</think>"):]
	}
	lower := strings.ToLower(out)
	if i := strings.Index(lower, "<think>"); i >= 0 {
		before := out[:i]
		tail := out[i+len("<think>"):]
		lines := strings.Split(tail, "\n")
		last := ""
		for j := len(lines) - 1; j >= 0; j-- {
			if strings.IndexFunc(lines[j], isLetter) >= 0 {
				last = lines[j]
				break
			}
		}
		out = before + "\n" + last
	}
	return strings.TrimSpace(out)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
