package analytics

import (
	"context"
	"log"
	"time"

	"mf360/internal/caching"
	"mf360/internal/models"
	"mf360/internal/repositories"
)

// statsTTL bounds staleness of the cached snapshot; roster writes invalidate
// it eagerly anyway.
const statsTTL = 60 * time.Second

// AnalyticsService aggregates the dashboard snapshot.
type AnalyticsService interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type analyticsService struct {
	investorRepo repositories.InvestorRepository
	analysisRepo repositories.AnalysisRepository
	cacheSvc     caching.CacheService
}

func NewAnalyticsService(investorRepo repositories.InvestorRepository, analysisRepo repositories.AnalysisRepository, cacheSvc caching.CacheService) AnalyticsService {
	return &analyticsService{
		investorRepo: investorRepo,
		analysisRepo: analysisRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *analyticsService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cacheSvc != nil {
		cached, err := s.cacheSvc.GetDashboardStats(ctx)
		if err != nil {
			log.Printf("Dashboard stats cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	totalInvestors, err := s.investorRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	kycPending, err := s.investorRepo.CountByKYCStatus(ctx, models.KYCIncomplete)
	if err != nil {
		return nil, err
	}
	totalAUM, err := s.investorRepo.TotalAUM(ctx)
	if err != nil {
		return nil, err
	}
	recentAnalyses, err := s.analysisRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalInvestors: totalInvestors,
		KYCPending:     kycPending,
		TotalAUM:       totalAUM,
		RecentAnalyses: recentAnalyses,
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetDashboardStats(ctx, stats, statsTTL); err != nil {
			log.Printf("Dashboard stats cache write failed: %v", err)
		}
	}
	return stats, nil
}
