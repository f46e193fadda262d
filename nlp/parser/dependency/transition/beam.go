package transition

import (
	"context"
	"fmt"
	"time"

	"depbeam/alg/search"
	nlp "depbeam/nlp/types"

	"github.com/golang/glog"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

const (
	// decisions at or below this probability are never expanded
	MIN_PROB_TO_STORE = 0.0001
	// spacing between progress indices, leaving room for configurations that
	// make no progress to be filed strictly after their parent's bucket
	PROGRESS_SCALE = 1000
	KILOBYTE       = 1024
)

type StopReason byte

const (
	Exhausted StopReason = iota
	TerminalReached
	EarlyStopped
	TimedOut
	OutOfMemory
	Cancelled
)

var stopNames = [...]string{"exhausted", "terminal", "early stop", "timeout", "memory", "cancelled"}

func (s StopReason) String() string {
	if int(s) < len(stopNames) {
		return stopNames[s]
	}
	return "unknown"
}

// Beam is a beam-search parser driven by an oracle. Its fields are settings
// and must not change while parses are running; one Beam may serve many
// goroutines, since all per-sentence state lives in the search.
type Beam struct {
	System     TransitionSystem
	Oracle     Oracle
	Rules      *RuleSet
	Comparison ComparisonStrategy
	Scoring    ScoringStrategy
	Observers  []Observer

	// maximum number of configurations expanded per bucket and returned
	Size int
	// zero means unlimited
	MaxAnalysisTime time.Duration
	// in kilobytes, zero means unlimited
	MinFreeMemory uint64
	EarlyStop     bool
	// reports free system memory in bytes; memory.FreeMemory if nil
	FreeMemory func() uint64
}

type ParseResult struct {
	Configurations []*SimpleConfiguration
	Stop           StopReason
	Buckets        int
	OracleCalls    int
	Elapsed        time.Duration
	// the result came from the backup agenda
	Backup bool
}

func (b *Beam) Name() string {
	return fmt.Sprintf("Beam(%d)", b.Size)
}

func (b *Beam) Validate() error {
	switch {
	case b.System == nil:
		return errors.New("beam has no transition system")
	case b.Oracle == nil:
		return errors.New("beam has no oracle")
	case b.Size < 1:
		return errors.Errorf("beam size must be at least 1, got %d", b.Size)
	}
	return nil
}

// Parse returns the best configuration for a single tagging of a sentence.
func (b *Beam) Parse(ctx context.Context, sent nlp.TaggedSentence) (*SimpleConfiguration, error) {
	confs, err := b.ParseHypotheses(ctx, []nlp.TaggedSentence{sent})
	if err != nil {
		return nil, err
	}
	return confs[0], nil
}

// ParseHypotheses seeds the beam with one configuration per tagging of the
// same sentence and returns at most Size configurations, best first.
func (b *Beam) ParseHypotheses(ctx context.Context, sents []nlp.TaggedSentence) ([]*SimpleConfiguration, error) {
	result, err := b.Search(ctx, sents)
	if err != nil {
		return nil, err
	}
	return result.Configurations, nil
}

func (b *Beam) Search(ctx context.Context, sents []nlp.TaggedSentence) (*ParseResult, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(sents) == 0 {
		return nil, errors.New("no sentence to parse")
	}
	s := &beamSearch{
		Beam:       b,
		ctx:        ctx,
		start:      time.Now(),
		buckets:    search.NewBuckets(b.Size),
		comparison: b.Comparison,
		scoring:    b.Scoring,
		freeMemory: b.FreeMemory,
	}
	if s.comparison == nil {
		s.comparison = BufferSize{}
	}
	if s.scoring == nil {
		s.scoring = GeometricMean{}
	}
	if s.freeMemory == nil {
		s.freeMemory = memory.FreeMemory
	}
	initial := s.buckets.At(0)
	for i, sent := range sents {
		c := NewConfiguration(sent)
		c.Hypothesis = i
		c.Scoring = s.scoring
		s.stamp(c)
		initial.Add(c)
		if glog.V(2) {
			glog.Infof("Hypothesis %d tag score %.4f", i, nlp.TagScore(sent))
		}
	}
	result, err := s.run()
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(s.start)
	if glog.V(1) {
		glog.Infof("Parsed %d tokens in %v: %d buckets, %d oracle calls, stop: %v, results: %d",
			len(sents[0].TaggedTokens()), result.Elapsed, result.Buckets, result.OracleCalls, result.Stop, len(result.Configurations))
	}
	return result, nil
}

type beamSearch struct {
	*Beam
	ctx        context.Context
	start      time.Time
	buckets    *search.Buckets
	comparison ComparisonStrategy
	scoring    ScoringStrategy
	freeMemory func() uint64

	serial      int
	oracleCalls int
}

func (s *beamSearch) stamp(c *SimpleConfiguration) {
	s.serial++
	c.serial = s.serial
}

func (s *beamSearch) run() (*ParseResult, error) {
	var (
		final, backup *search.Agenda
		result        = &ParseResult{}
	)
	for {
		index, current, ok := s.buckets.PollFirst()
		if !ok {
			break
		}
		result.Buckets++
		// whatever happens next, this bucket is the result if the search ends here
		final = current
		backup = search.NewAgenda(s.Size)
		if glog.V(2) {
			glog.Infof("Polling bucket %d, size %d", index, current.Len())
		}

		reason, stop := s.stop(current)
		if stop {
			result.Stop = reason
			if reason == EarlyStopped {
				final = s.buckets.Terminal()
			}
			break
		}
		if err := s.expand(index, current, backup); err != nil {
			return nil, err
		}
	}
	result.OracleCalls = s.oracleCalls
	if final == nil || final.Len() == 0 {
		if backup != nil && backup.Len() > 0 {
			glog.Warningf("No configuration survived, returning %d from the backup agenda", backup.Len())
			final = backup
			result.Backup = true
		}
	}
	if final == nil || final.Len() == 0 {
		return nil, errors.New("beam search produced no configuration")
	}
	for _, candidate := range final.Drain(s.Size) {
		result.Configurations = append(result.Configurations, candidate.(*SimpleConfiguration))
	}
	return result, nil
}

func (s *beamSearch) stop(current *search.Agenda) (StopReason, bool) {
	if top := current.Peek(); top != nil && top.Terminal() {
		return TerminalReached, true
	}
	if s.EarlyStop && s.buckets.Terminal().Len() >= s.Size {
		glog.V(1).Infof("Early stop: terminal agenda holds %d configurations", s.buckets.Terminal().Len())
		return EarlyStopped, true
	}
	if s.MaxAnalysisTime > 0 {
		if elapsed := time.Since(s.start); elapsed > s.MaxAnalysisTime {
			glog.Infof("Parse took too long (%v > %v), returning best effort", elapsed, s.MaxAnalysisTime)
			return TimedOut, true
		}
	}
	if s.MinFreeMemory > 0 {
		if free := s.freeMemory(); free < s.MinFreeMemory*KILOBYTE {
			glog.Infof("Not enough free memory to continue parsing: %d bytes free, minimum %d", free, s.MinFreeMemory*KILOBYTE)
			return OutOfMemory, true
		}
	}
	if s.ctx != nil {
		select {
		case <-s.ctx.Done():
			glog.Infof("Parse cancelled: %v", s.ctx.Err())
			return Cancelled, true
		default:
		}
	}
	return Exhausted, false
}

// expand pops configurations off the current bucket until Size of them have
// produced at least one child. Parents that produce none go to the backup
// agenda and do not count toward the beam.
func (s *beamSearch) expand(index int, current, backup *search.Agenda) error {
	maxSequences := current.Len()
	if maxSequences > s.Size {
		maxSequences = s.Size
	}
	survived := 0
	for current.Len() > 0 {
		history := current.Next().(*SimpleConfiguration)
		if glog.V(2) {
			glog.Infof("Expanding %v score %.4f", history, history.Score())
		}
		decisions, err := s.decide(history)
		if err != nil {
			return err
		}
		applied := false
		for _, decision := range decisions {
			t, err := s.System.TransitionForCode(decision.Code)
			if err != nil {
				return errors.Wrapf(err, "oracle proposed %s", decision)
			}
			if !s.System.CheckPreconditions(t, history) {
				if glog.V(2) {
					glog.Infof("Cannot apply %s: preconditions not met", t.Code())
				}
				continue
			}
			child := history.Clone()
			if decision.Statistical {
				child.AddDecision(decision)
			}
			if err := s.System.Apply(t, child); err != nil {
				if !BranchError(err) {
					glog.Warningf("Dropping branch on %s: %v", t.Code(), err)
				} else if glog.V(2) {
					glog.Infof("Dropping branch on %s: %v", t.Code(), err)
				}
				continue
			}
			applied = true
			s.stamp(child)
			s.buckets.Add(s.nextIndex(index, child), child)
		}
		if applied {
			survived++
		} else {
			backup.Add(history)
		}
		if survived == maxSequences {
			break
		}
	}
	return nil
}

func (s *beamSearch) nextIndex(current int, c *SimpleConfiguration) int {
	if c.Terminal() {
		return search.TERMINAL_INDEX
	}
	next := s.comparison.ComparisonIndex(c) * PROGRESS_SCALE
	if next <= current {
		next = current + 1
	}
	return next
}

// decide runs the positive rules, then the oracle and the negative rules.
func (s *beamSearch) decide(c *SimpleConfiguration) ([]Decision, error) {
	if rule, forced := s.Rules.Force(c); forced {
		if glog.V(2) {
			glog.Infof("Rule %v applies", rule)
		}
		return []Decision{ForcedDecision(rule.Transition.Code(), rule.Condition.Name())}, nil
	}
	decisions, err := s.Oracle.Decide(c)
	s.oracleCalls++
	if err != nil {
		return nil, errors.Wrap(err, "oracle failed")
	}
	decisions = append([]Decision(nil), decisions...)
	for i := range decisions {
		decisions[i].Statistical = true
	}
	if len(s.Observers) > 0 {
		var features []FeatureResult
		if reporter, ok := s.Oracle.(FeatureReporter); ok {
			features = reporter.Features(c)
		}
		for _, observer := range s.Observers {
			observer.OnAnalyse(c.Clone(), features, append([]Decision(nil), decisions...))
		}
	}
	shortList := make([]Decision, 0, len(decisions))
	for _, d := range decisions {
		if d.Probability > MIN_PROB_TO_STORE {
			shortList = append(shortList, d)
		}
	}
	if vetoed := s.Rules.Vetoed(c); len(vetoed) > 0 {
		filtered, restored := Filter(shortList, vetoed)
		if restored {
			glog.V(1).Infof("All %d decisions vetoed, restoring them", len(shortList))
		}
		shortList = filtered
	}
	return shortList, nil
}
