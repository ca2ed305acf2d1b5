package app

import (
	"math/rand"
	"time"
)

// RandomPicker selects a media URL uniformly at random. It satisfies
// reminder.MediaPicker; tests substitute a deterministic implementation.
type RandomPicker struct {
	rng *rand.Rand
}

func NewRandomPicker() *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (p *RandomPicker) Pick(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[p.rng.Intn(len(urls))]
}
