package eval

import (
	"fmt"

	nlp "depbeam/nlp/types"
)

const (
	NO_HEAD                = "noHead"
	WRONG_HEAD             = "wrongHead"
	WRONG_LABEL            = "wrongLabel"
	WRONG_HEAD_WRONG_LABEL = "wrongHeadWrongLabel"
)

type AttachmentError struct {
	Token              int
	GoldHead, TestHead int
	GoldLabel          nlp.DepRel
	TestLabel          nlp.DepRel
	class              string
}

var _ Error = &AttachmentError{}

func (e *AttachmentError) String() string {
	return fmt.Sprintf("%d: expected (%d,%s) got (%d,%s)", e.Token, e.GoldHead, e.GoldLabel, e.TestHead, e.TestLabel)
}

func (e *AttachmentError) Class() string {
	return e.class
}

// defaultArc reports a root attachment without a label, which the parser
// adds to tokens it never attached.
func defaultArc(head int, label nlp.DepRel) bool {
	return head <= 0 && label == ""
}

// Classify compares one token's gold and test attachment and returns the
// error class, or "" if it counts as correct.
func Classify(goldHead int, goldLabel nlp.DepRel, testHead int, testLabel nlp.DepRel, labeled bool) string {
	switch {
	case defaultArc(testHead, testLabel) && !defaultArc(goldHead, goldLabel):
		return NO_HEAD
	case goldHead != testHead && (!labeled || goldLabel == testLabel):
		return WRONG_HEAD
	case goldHead != testHead:
		return WRONG_HEAD_WRONG_LABEL
	case labeled && goldLabel != testLabel:
		return WRONG_LABEL
	}
	return ""
}

// Attachment scores the tokens of test against gold: TP counts correct
// attachments and FN missed gold arcs, so Recall is UAS or LAS depending on
// labeled. FP counts wrong arcs the parser did add, which excludes tokens
// left with the default root attachment. Tokens whose gold label is
// skipLabel are ignored.
func Attachment(gold, test nlp.DependencyGraph, labeled bool, skipLabel nlp.DepRel) *Result {
	result := new(Result)
	for i := 1; i < gold.NumberOfNodes(); i++ {
		goldHead, goldLabel := gold.Head(i), gold.Label(i)
		if len(skipLabel) > 0 && goldLabel == skipLabel {
			continue
		}
		testHead, testLabel := test.Head(i), test.Label(i)
		class := Classify(goldHead, goldLabel, testHead, testLabel, labeled)
		if class == "" {
			result.TP++
			continue
		}
		result.FN++
		if class != NO_HEAD {
			result.FP++
		}
		result.Errors = append(result.Errors, &AttachmentError{i, goldHead, testHead, goldLabel, testLabel, class})
	}
	return result
}
