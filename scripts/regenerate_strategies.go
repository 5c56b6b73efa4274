// 手动重新生成失败的 AI 策略
//
// 完成测评时策略在后台生成，失败后状态为 failed。此脚本用于 AI 服务恢复后批量补生成，
// 也可在后台测评详情中逐条重新生成。
//
// 用法: go run scripts/regenerate_strategies.go [-status failed] [-limit 100]

package main

import (
	"context"
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/service"
	"dream_site_backend/pkg/database"
	"dream_site_backend/pkg/logger"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"
)

func main() {
	status := flag.String("status", string(model.StrategyFailed), "要重新生成的策略状态")
	limit := flag.Int("limit", 100, "最多处理的测评数量")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, cached results will expire on their own", zap.Error(err))
		rdb = nil
	}

	engine := scoring.DefaultEngine()
	strategy := service.NewStrategyService(cfg, engine)
	if !strategy.Enabled() {
		log.Fatal("AI 策略未启用，请检查 ai 配置")
	}

	repo := repository.NewAssessmentRepository(db)
	cache := repository.NewResultCacheRepository(rdb, time.Duration(cfg.Quiz.ResultCacheMinute)*time.Minute)
	assessments := service.NewAssessmentService(engine, repo, cache, nil, nil, strategy)

	list, total, err := assessments.List(repository.AssessmentFilter{
		Status:   string(model.AssessmentCompleted),
		Strategy: *status,
	}, 1, *limit)
	if err != nil {
		log.Fatalf("查询测评失败: %v", err)
	}

	log.Printf("共 %d 条策略状态为 %s 的测评，本次处理 %d 条", total, *status, len(list))

	ok := 0
	for _, a := range list {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		_, err := assessments.RegenerateStrategy(ctx, a.ID)
		cancel()
		if err != nil {
			logger.Log.Error("Strategy regeneration failed", zap.Uint("assessmentId", a.ID), zap.Error(err))
			continue
		}
		ok++
	}

	log.Printf("完成！成功 %d 条，失败 %d 条", ok, len(list)-ok)
}
