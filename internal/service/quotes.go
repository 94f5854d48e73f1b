package service

import (
	"hash/fnv"
	"time"
)

// Quote 激励语录
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{Text: "You don't have to be perfect. You just have to show up.", Author: "Anonymous"},
	{Text: "Small progress is still progress. Keep going! 💪", Author: "Anonymous"},
	{Text: "Your focus determines your reality.", Author: "Star Wars"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "You're capable of amazing things. Start small, dream big! ✨", Author: "Anonymous"},
	{Text: "Progress, not perfection. That's the goal.", Author: "Anonymous"},
	{Text: "Every expert was once a beginner. You got this!", Author: "Anonymous"},
	{Text: "Focus on being productive instead of busy.", Author: "Tim Ferriss"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "It always seems impossible until it's done.", Author: "Nelson Mandela"},
	{Text: "One block at a time. One session at a time.", Author: "Anonymous"},
}

// DailyQuote 当天语录：对日期键哈希取模，同一天内稳定
func DailyQuote(now time.Time) Quote {
	h := fnv.New32a()
	_, _ = h.Write([]byte(DateKey(now)))
	return quotes[int(h.Sum32())%len(quotes)]
}
