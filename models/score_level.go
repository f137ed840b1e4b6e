package models

import "math"

// ScoreLevel is a named bucket a score falls into. The table is static and
// ordered by ascending MaxScore; the last tier is open-ended.
type ScoreLevel struct {
	MaxScore int    `json:"-"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
}

var scoreLevels = []ScoreLevel{
	{MaxScore: 4, Name: "Normal", Emoji: "😊", Color: "#96ceb4"},
	{MaxScore: 7, Name: "Big", Emoji: "😋", Color: "#feca57"},
	{MaxScore: 10, Name: "Very Big", Emoji: "🤤", Color: "#ff6b6b"},
	{MaxScore: 13, Name: "Very Very Big", Emoji: "😵", Color: "#ff9ff3"},
	{MaxScore: 16, Name: "Double Very Big", Emoji: "🤯", Color: "#a55eea"},
	{MaxScore: 19, Name: "Triple Very Big", Emoji: "💀", Color: "#26de81"},
	{MaxScore: 24, Name: "Double Double Very Big", Emoji: "👻", Color: "#fd79a8"},
	{MaxScore: math.MaxInt, Name: "Elephant Food", Emoji: "🐘", Color: "#6c5ce7"},
}

// LevelForScore returns the first tier whose MaxScore covers the score.
// Pure function; the open-ended last tier catches everything.
func LevelForScore(score int) ScoreLevel {
	for _, lv := range scoreLevels {
		if score <= lv.MaxScore {
			return lv
		}
	}
	return scoreLevels[len(scoreLevels)-1]
}
