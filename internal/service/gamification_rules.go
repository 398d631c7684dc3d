package service

import (
	"monsterhouse_backend/internal/config"
	"sync/atomic"
)

// GamificationRules 积分规则，配置热加载时原子替换
type GamificationRules struct {
	v atomic.Pointer[config.GamificationConfig]
}

func NewGamificationRules(cfg config.GamificationConfig) *GamificationRules {
	r := &GamificationRules{}
	r.Set(cfg)
	return r
}

func (r *GamificationRules) Get() config.GamificationConfig {
	return *r.v.Load()
}

func (r *GamificationRules) Set(cfg config.GamificationConfig) {
	cfg = cfg.Normalize()
	r.v.Store(&cfg)
}

// CompletionPoints 完成 k 个动作的得分：基础分 + 每个动作奖励分
func CompletionPoints(g config.GamificationConfig, completedExercises int) int {
	return g.BaseCompletionPoints + g.BonusPerExercise*completedExercises
}
