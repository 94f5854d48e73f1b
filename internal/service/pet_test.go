package service

import (
	"testing"
	"time"

	"github.com/sketch0395/focuszone/internal/schema"
)

func newTestPet(t *testing.T, now time.Time) schema.Pet {
	t.Helper()
	pet, err := NewPet("Mochi", "cat", now)
	if err != nil {
		t.Fatalf("NewPet: %v", err)
	}
	return pet
}

func TestNewPetUnknownSpecies(t *testing.T) {
	if _, err := NewPet("x", "unicorn", testNow); err == nil {
		t.Fatal("未知种类应报错")
	}
}

func TestUpdateStatsDecay(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Hunger = 40

	// 90 分钟后：hunger 40 - 5×1.5 = 32.5
	now := testNow.Add(90 * time.Minute)
	out := UpdateStats(pet, now)
	if out.Hunger != 32.5 {
		t.Errorf("Hunger = %v, want 32.5", out.Hunger)
	}
	// energy 100 - 3×1.5 = 95.5，happiness 100 - 2×1.5 = 97
	if out.Energy != 95.5 {
		t.Errorf("Energy = %v, want 95.5", out.Energy)
	}
	if out.Happiness != 97 {
		t.Errorf("Happiness = %v, want 97", out.Happiness)
	}
}

func TestUpdateStatsIdempotentForSameNow(t *testing.T) {
	pet := newTestPet(t, testNow)
	now := testNow.Add(3 * time.Hour)

	once := UpdateStats(pet, now)
	twice := UpdateStats(once, now)
	// 3 小时只允许扣一次：hunger 100-15=85，而不是再扣成 70
	if once.Hunger != 85 {
		t.Fatalf("Hunger = %v, want 85", once.Hunger)
	}
	if twice != once {
		t.Errorf("同一 now 重复调用结果不一致:\n once=%+v\ntwice=%+v", once, twice)
	}
}

func TestUpdateStatsComposesAcrossPersistedCalls(t *testing.T) {
	// 模拟每次查看状态都持久化投影结果：分两段投影与一次性投影的衰减必须一致
	pet := newTestPet(t, testNow)
	pet.Hunger, pet.Energy, pet.Happiness = 60, 60, 60
	pet.Health = 80 // 中间区间，不触发健康联动

	t1 := testNow.Add(1 * time.Hour)
	t2 := testNow.Add(2 * time.Hour)

	stepwise := UpdateStats(UpdateStats(pet, t1), t2)
	direct := UpdateStats(pet, t2)
	if stepwise != direct {
		t.Errorf("分段投影与一次性投影不一致:\n step=%+v\n once=%+v", stepwise, direct)
	}
	if direct.Hunger != 50 {
		t.Errorf("Hunger = %v, want 50", direct.Hunger)
	}
}

func TestUpdateStatsClampsToZero(t *testing.T) {
	pet := newTestPet(t, testNow)
	out := UpdateStats(pet, testNow.Add(10000*time.Hour))
	if out.Hunger != 0 || out.Energy != 0 || out.Happiness != 0 {
		t.Errorf("长期缺席体征应归零: %+v", out)
	}
}

func TestUpdateStatsHealthPenalty(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Hunger = 10
	pet.Energy = 10
	pet.Happiness = 10
	pet.Health = 50

	out := UpdateStats(pet, testNow.Add(time.Minute))
	// -2 -2 -1 = -5
	if out.Health != 45 {
		t.Errorf("Health = %v, want 45", out.Health)
	}
}

func TestUpdateStatsHealthRecovery(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Health = 50

	out := UpdateStats(pet, testNow.Add(time.Minute))
	if out.Health != 51 {
		t.Errorf("三项全高应回血: Health = %v, want 51", out.Health)
	}
}

func TestUpdateStatsNoElapsedTimeIsNoop(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Health = 50

	// 基线时刻没有前进：健康联动也不得重复生效
	if out := UpdateStats(pet, testNow); out != pet {
		t.Errorf("零流逝时间应原样返回: %+v", out)
	}
}

func TestUpdateStatsClockSkew(t *testing.T) {
	pet := newTestPet(t, testNow)
	// 时钟回拨：不得出现负衰减（体征上涨）
	out := UpdateStats(pet, testNow.Add(-2*time.Hour))
	if out.Hunger > 100 || out.Hunger != pet.Hunger {
		t.Errorf("时钟回拨不应改变 Hunger: %v", out.Hunger)
	}
}

func TestFeed(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Hunger = 50
	pet.Happiness = 50

	now := testNow.Add(2 * time.Hour)
	out := Feed(pet, now)
	if out.Hunger != 80 {
		t.Errorf("Hunger = %v, want 80", out.Hunger)
	}
	if out.Happiness != 55 {
		t.Errorf("Happiness = %v, want 55", out.Happiness)
	}
	if out.LastFed != now.UnixMilli() {
		t.Error("LastFed 未刷新")
	}
}

func TestFeedCooldownNoop(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Hunger = 50

	now := testNow.Add(30 * time.Minute) // 冷却 1 小时内
	out := Feed(pet, now)
	if out.Hunger != 50 {
		t.Errorf("冷却中 Hunger 不应变化: %v", out.Hunger)
	}
	if out.LastFed != pet.LastFed {
		t.Error("冷却中 LastFed 不应刷新")
	}
}

func TestPlay(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Happiness = 50
	pet.Energy = 50

	out := Play(pet, testNow.Add(3*time.Hour))
	if out.Happiness != 75 {
		t.Errorf("Happiness = %v, want 75", out.Happiness)
	}
	if out.Energy != 35 {
		t.Errorf("Energy = %v, want 35", out.Energy)
	}
}

func TestRest(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Energy = 30
	pet.Happiness = 50

	out := Rest(pet, testNow.Add(5*time.Hour))
	if out.Energy != 70 {
		t.Errorf("Energy = %v, want 70", out.Energy)
	}
	if out.Happiness != 60 {
		t.Errorf("Happiness = %v, want 60", out.Happiness)
	}
}

func TestCareClampAt100(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Hunger = 90
	out := Feed(pet, testNow.Add(2*time.Hour))
	if out.Hunger != 100 {
		t.Errorf("Hunger 应钳制在 100: %v", out.Hunger)
	}
}

func TestPetLevelFor(t *testing.T) {
	cases := []struct{ owner, pet int }{
		{0, 1}, {1, 1}, {2, 2}, {5, 3}, {10, 6}, {20, 11},
	}
	for _, c := range cases {
		if got := PetLevelFor(c.owner); got != c.pet {
			t.Errorf("PetLevelFor(%d) = %d, want %d", c.owner, got, c.pet)
		}
	}
}

func TestApplyOwnerLevelOnlyRaises(t *testing.T) {
	pet := newTestPet(t, testNow)
	pet.Level = 5
	pet.Happiness = 50
	pet.Health = 50

	// 主人等级 4 → 宠物等级 3，低于当前 5，不降级也不加奖励
	out := ApplyOwnerLevel(pet, 4)
	if out.Level != 5 || out.Happiness != 50 {
		t.Errorf("不应降级: %+v", out)
	}

	// 主人等级 10 → 宠物等级 6，升级并奖励
	out = ApplyOwnerLevel(pet, 10)
	if out.Level != 6 {
		t.Errorf("Level = %d, want 6", out.Level)
	}
	if out.Happiness != 70 || out.Health != 70 {
		t.Errorf("升级奖励未生效: %+v", out)
	}
}

func TestCanAdopt(t *testing.T) {
	if !CanAdopt("cat", 0) {
		t.Error("cat 应从 0 级可领养")
	}
	if CanAdopt("dragon", 9) {
		t.Error("dragon 10 级解锁")
	}
	if !CanAdopt("dragon", 10) {
		t.Error("10 级应可领养 dragon")
	}
	if CanAdopt("unicorn", 99) {
		t.Error("未知种类不可领养")
	}
}

func TestMood(t *testing.T) {
	pet := newTestPet(t, testNow)
	mood, _, _ := Mood(pet)
	if mood != "Excellent" {
		t.Errorf("满体征 mood = %q", mood)
	}

	pet.Happiness, pet.Health, pet.Hunger, pet.Energy = 10, 10, 10, 10
	mood, _, _ = Mood(pet)
	if mood != "Critical" {
		t.Errorf("低体征 mood = %q", mood)
	}
}
