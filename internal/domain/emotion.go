package domain

import (
	"fmt"
	"sort"
)

// Emotion labels as produced by the detectors after normalization.
const (
	EmotionNeutral   = "neutral"
	EmotionHappy     = "happy"
	EmotionSad       = "sad"
	EmotionAngry     = "angry"
	EmotionFearful   = "fearful"
	EmotionDisgusted = "disgusted"
	EmotionSurprised = "surprised"
)

// DetectionOrder is the order in which the face-expression engine emits its
// labels. Dominant-emotion selection walks it so results do not depend on
// map iteration.
var DetectionOrder = []string{
	EmotionNeutral,
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionFearful,
	EmotionDisgusted,
	EmotionSurprised,
}

// SummaryOrder is the label order used when counting readings for a batch
// summary. The later label wins a tie on count.
var SummaryOrder = []string{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionSurprised,
	EmotionFearful,
	EmotionDisgusted,
	EmotionNeutral,
}

// Emotions maps an emotion label to a probability in [0,1].
type Emotions map[string]float64

// Labels returns the keys of e in DetectionOrder, followed by any extra
// labels sorted by name.
func (e Emotions) Labels() []string {
	labels := make([]string, 0, len(e))
	known := make(map[string]bool, len(DetectionOrder))
	for _, l := range DetectionOrder {
		known[l] = true
		if _, ok := e[l]; ok {
			labels = append(labels, l)
		}
	}

	var extra []string
	for l := range e {
		if !known[l] {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	return append(labels, extra...)
}

// Dominant returns the argmax label and its probability. On equal
// probabilities the label appearing later in Labels() wins, matching the
// engine's left fold. An empty mapping yields ("", 0).
func (e Emotions) Dominant() (string, float64) {
	labels := e.Labels()
	if len(labels) == 0 {
		return "", 0
	}

	best := labels[0]
	for _, l := range labels[1:] {
		if !(e[best] > e[l]) {
			best = l
		}
	}
	return best, e[best]
}

// Vector returns the probabilities in DetectionOrder, zero for missing labels.
func (e Emotions) Vector() []float32 {
	v := make([]float32, len(DetectionOrder))
	for i, l := range DetectionOrder {
		v[i] = float32(e[l])
	}
	return v
}

var emotionLabelsAr = map[string]string{
	EmotionHappy:     "سعيد",
	EmotionSad:       "حزين",
	EmotionAngry:     "غاضب",
	EmotionSurprised: "متفاجئ",
	EmotionFearful:   "خائف",
	EmotionDisgusted: "مشمئز",
	EmotionNeutral:   "محايد",
}

var genderLabelsAr = map[string]string{
	"male":   "ذكر",
	"female": "أنثى",
}

// EmotionLabel returns the display label for an emotion. Unknown labels and
// languages other than "ar" are returned unchanged.
func EmotionLabel(emotion, lang string) string {
	if lang != "ar" {
		return emotion
	}
	if l, ok := emotionLabelsAr[emotion]; ok {
		return l
	}
	return emotion
}

// GenderLabel is the gender counterpart of EmotionLabel.
func GenderLabel(gender, lang string) string {
	if lang != "ar" {
		return gender
	}
	if l, ok := genderLabelsAr[gender]; ok {
		return l
	}
	return gender
}

// CanonicalEmotion maps an Arabic display label back to its canonical label.
func CanonicalEmotion(label string) string {
	for k, v := range emotionLabelsAr {
		if v == label {
			return k
		}
	}
	return label
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
