package service

import (
	"fmt"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
)

// 体征每小时衰减速率
const (
	hungerDecayPerHour    = 5.0
	energyDecayPerHour    = 3.0
	happinessDecayPerHour = 2.0
)

// 照料动作冷却时间
const (
	FeedCooldown = 1 * time.Hour
	PlayCooldown = 2 * time.Hour
	RestCooldown = 4 * time.Hour
)

// 健康联动阈值：任一体征低于 lowVital 扣健康，三项全部高于 highVital 缓慢回血
const (
	lowVital  = 20.0
	highVital = 70.0
)

// Species 宠物种类，按主人等级逐个解锁
type Species struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	UnlockLevel int    `json:"unlock_level"`
}

// SpeciesCatalog 固定种类目录（按解锁等级升序）
var SpeciesCatalog = []Species{
	{Key: "cat", Name: "Cat", Emoji: "🐱", UnlockLevel: 0},
	{Key: "dog", Name: "Dog", Emoji: "🐶", UnlockLevel: 5},
	{Key: "dragon", Name: "Dragon", Emoji: "🐉", UnlockLevel: 10},
	{Key: "robot", Name: "Robot", Emoji: "🤖", UnlockLevel: 15},
	{Key: "plant", Name: "Plant", Emoji: "🌱", UnlockLevel: 20},
	{Key: "mecha", Name: "Mecha", Emoji: "🦾", UnlockLevel: 25},
}

// SpeciesByKey 按 key 查找种类
func SpeciesByKey(key string) (Species, bool) {
	for _, s := range SpeciesCatalog {
		if s.Key == key {
			return s, true
		}
	}
	return Species{}, false
}

// CanAdopt 判断主人等级是否已解锁该种类
func CanAdopt(speciesKey string, ownerLevel int) bool {
	s, ok := SpeciesByKey(speciesKey)
	return ok && ownerLevel >= s.UnlockLevel
}

// UnlockedSpecies 主人等级已解锁的全部种类
func UnlockedSpecies(ownerLevel int) []Species {
	var out []Species
	for _, s := range SpeciesCatalog {
		if ownerLevel >= s.UnlockLevel {
			out = append(out, s)
		}
	}
	return out
}

// NewPet 创建新宠物，体征满值，照料时间戳取当前时间
func NewPet(name, speciesKey string, now time.Time) (schema.Pet, error) {
	if _, ok := SpeciesByKey(speciesKey); !ok {
		return schema.Pet{}, fmt.Errorf("未知宠物种类: %s", speciesKey)
	}
	ms := now.UnixMilli()
	return schema.Pet{
		Name:      name,
		Species:   speciesKey,
		Level:     1,
		Happiness: 100,
		Health:    100,
		Hunger:    100,
		Energy:    100,
		LastFed:   ms,
		LastPlay:  ms,
		LastRest:  ms,
		CreatedAt: ms,
		UpdatedAt: ms,
	}, nil
}

// UpdateStats 按经过的真实时间推导体征。
// 存储体征是锚定在 updatedAt 的基线：每项只衰减
// max(照料时间戳, updatedAt) 到 now 之间尚未投影过的区间，算完把基线推进到 now。
// 同一 now 重复调用不产生额外扣减，持久化结果后再调仍然安全；
// 必须在每次读取或变更宠物状态前调用。
func UpdateStats(pet schema.Pet, now time.Time) schema.Pet {
	ms := now.UnixMilli()
	if pet.UpdatedAt >= ms {
		// 没有新的时间流逝（含时钟回拨），基线仍然有效
		return pet
	}

	hunger := decay(pet.Hunger, hungerDecayPerHour, hoursSince(maxMillis(pet.LastFed, pet.UpdatedAt), now))
	energy := decay(pet.Energy, energyDecayPerHour, hoursSince(maxMillis(pet.LastRest, pet.UpdatedAt), now))
	happiness := decay(pet.Happiness, happinessDecayPerHour, hoursSince(maxMillis(pet.LastPlay, pet.UpdatedAt), now))

	// 健康是派生调整：每项低体征独立扣分（最多叠加 5），三项全好则回 1 点
	health := pet.Health
	if hunger < lowVital {
		health -= 2
	}
	if energy < lowVital {
		health -= 2
	}
	if happiness < lowVital {
		health -= 1
	}
	if hunger > highVital && energy > highVital && happiness > highVital {
		health++
	}

	pet.Hunger = hunger
	pet.Energy = energy
	pet.Happiness = happiness
	pet.Health = clampVital(health)
	pet.UpdatedAt = ms
	return pet
}

// Feed 喂食：冷却 1 小时，冷却中原样返回（调用方可对比 lastFed 判断是否生效）
func Feed(pet schema.Pet, now time.Time) schema.Pet {
	if now.UnixMilli()-pet.LastFed < FeedCooldown.Milliseconds() {
		return pet
	}
	pet.Hunger = clampVital(pet.Hunger + 30)
	pet.Happiness = clampVital(pet.Happiness + 5)
	pet.LastFed = now.UnixMilli()
	return pet
}

// Play 玩耍：冷却 2 小时，加心情耗体力
func Play(pet schema.Pet, now time.Time) schema.Pet {
	if now.UnixMilli()-pet.LastPlay < PlayCooldown.Milliseconds() {
		return pet
	}
	pet.Happiness = clampVital(pet.Happiness + 25)
	pet.Energy = clampVital(pet.Energy - 15)
	pet.LastPlay = now.UnixMilli()
	return pet
}

// Rest 休息：冷却 4 小时
func Rest(pet schema.Pet, now time.Time) schema.Pet {
	if now.UnixMilli()-pet.LastRest < RestCooldown.Milliseconds() {
		return pet
	}
	pet.Energy = clampVital(pet.Energy + 40)
	pet.Happiness = clampVital(pet.Happiness + 10)
	pet.LastRest = now.UnixMilli()
	return pet
}

// PetLevelFor 宠物等级由主人游戏化等级派生：floor(level/2)+1
func PetLevelFor(ownerLevel int) int {
	return ownerLevel/2 + 1
}

// ApplyOwnerLevel 按主人等级提升宠物等级，只升不降；升级奖励一次性 +20 心情/健康
func ApplyOwnerLevel(pet schema.Pet, ownerLevel int) schema.Pet {
	petLevel := PetLevelFor(ownerLevel)
	if petLevel <= pet.Level {
		return pet
	}
	pet.Level = petLevel
	pet.Happiness = clampVital(pet.Happiness + 20)
	pet.Health = clampVital(pet.Health + 20)
	return pet
}

// Mood 按四项体征均值给出心情档位
func Mood(pet schema.Pet) (mood, emoji, message string) {
	avg := (pet.Happiness + pet.Health + pet.Hunger + pet.Energy) / 4
	switch {
	case avg >= 80:
		return "Excellent", "🌟", "Your pet is thriving!"
	case avg >= 60:
		return "Happy", "😊", "Your pet is doing great!"
	case avg >= 40:
		return "Okay", "😐", "Your pet needs some attention."
	case avg >= 20:
		return "Sad", "😢", "Your pet is struggling!"
	default:
		return "Critical", "💀", "Your pet needs immediate care!"
	}
}

// hoursSince 从时间戳到 now 的小时数，时钟回拨时按 0 处理
func hoursSince(ms int64, now time.Time) float64 {
	h := float64(now.UnixMilli()-ms) / float64(time.Hour.Milliseconds())
	if h < 0 {
		return 0
	}
	return h
}

func decay(value, ratePerHour, hours float64) float64 {
	v := value - ratePerHour*hours
	if v < 0 {
		return 0
	}
	return v
}

func maxMillis(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func clampVital(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
