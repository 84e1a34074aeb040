// Package intent turns recognized speech text into structured dance
// commands. The speech capture and recognition layers are external; this
// package only owns the text-to-command mapping.
package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teslashibe/go-dancebot/pkg/session"
)

// Kind identifies the command a parsed utterance maps to.
type Kind int

const (
	KindTimedDance Kind = iota
	KindSingleAction
	KindStop
	KindQuery
)

// Command is a parsed voice intent.
type Command struct {
	Kind Kind

	// Mode is Real when the utterance contains a trigger keyword,
	// Simulated otherwise.
	Mode session.Mode

	// Target is the requested dance duration (KindTimedDance).
	Target time.Duration

	// Label is the requested action label (KindSingleAction).
	Label string
}

// realTriggers mark an utterance as targeting the physical servos.
var realTriggers = []string{"real", "servo", "真实", "舵机"}

var (
	secondsEN = regexp.MustCompile(`(\d+)\s*second`)
	secondsZH = regexp.MustCompile(`(\d+)\s*秒`)
)

// Parse maps an utterance to a command. ok is false when the text is not a
// dance command at all; such text belongs to the conversational layer.
//
// Known labels are needed to recognize single-action commands: the longest
// label contained in the text wins.
func Parse(text string, knownLabels []string) (Command, bool) {
	lower := strings.ToLower(text)
	mode := session.ModeSimulated
	for _, kw := range realTriggers {
		if strings.Contains(lower, kw) {
			mode = session.ModeReal
			break
		}
	}

	// Stop first: "stop dancing" also contains "danc".
	if containsAny(lower, "stop danc", "停止跳舞", "停止舞蹈") {
		return Command{Kind: KindStop}, true
	}

	if containsAny(lower, "status", "舞蹈状态", "机器人状态") {
		return Command{Kind: KindQuery}, true
	}

	if containsAny(lower, "dance", "跳舞") {
		if secs, ok := extractSeconds(lower); ok {
			return Command{
				Kind:   KindTimedDance,
				Mode:   mode,
				Target: time.Duration(secs) * time.Second,
			}, true
		}
	}

	if containsAny(lower, "do ", "perform", "执行", "做动作") {
		if label := matchLabel(text, knownLabels); label != "" {
			return Command{Kind: KindSingleAction, Mode: mode, Label: label}, true
		}
	}

	return Command{}, false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func extractSeconds(lower string) (int, bool) {
	for _, re := range []*regexp.Regexp{secondsEN, secondsZH} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// matchLabel finds the longest known label contained in the raw text.
// Labels are matched case-insensitively but otherwise verbatim, so
// non-ASCII labels work unchanged.
func matchLabel(text string, labels []string) string {
	lower := strings.ToLower(text)
	best := ""
	for _, label := range labels {
		if strings.Contains(lower, strings.ToLower(label)) && len(label) > len(best) {
			best = label
		}
	}
	return best
}
