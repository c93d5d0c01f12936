package service

import (
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
)

// DashboardOverview 仪表盘概览数据
type DashboardOverview struct {
	Stats       *repository.DashboardStats `json:"stats"`
	RecentPosts []models.Post              `json:"recentPosts"`
}

// DashboardService 仪表盘服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务实例
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// Overview 统计数据与最近文章
func (s *DashboardService) Overview() (*DashboardOverview, error) {
	stats, err := s.dashboardRepo.Stats()
	if err != nil {
		return nil, err
	}
	posts, err := s.dashboardRepo.RecentPosts(5)
	if err != nil {
		return nil, err
	}
	return &DashboardOverview{
		Stats:       stats,
		RecentPosts: posts,
	}, nil
}
