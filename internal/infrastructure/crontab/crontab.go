package crontab

import (
	"context"
	"fmt"
	"time"

	"agenthub/services/agent-api/internal/config"
	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/domain/modelregistry"
	"agenthub/services/agent-api/internal/infrastructure/logger"
	"agenthub/services/agent-api/internal/utils/platformerrors"

	"github.com/mileusna/crontab"
)

const (
	DefaultConnectivityInterval    = 60 // in minutes
	DefaultInvitationSweepInterval = 30 // in minutes
	CronJobTimeout                 = 10 * time.Minute
)

type Crontab struct {
	ctab              *crontab.Crontab
	modelService      *modelregistry.Service
	invitationService *invitation.Service
}

func NewCrontab(
	modelService *modelregistry.Service,
	invitationService *invitation.Service,
) *Crontab {
	return &Crontab{
		ctab:              crontab.New(),
		modelService:      modelService,
		invitationService: invitationService,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	// execute once on server start
	c.sweepModelConnectivity(ctx)
	c.sweepInvitationStatuses(ctx)

	cfg := config.GetGlobal()

	if cfg == nil || cfg.ConnectivityEnabled {
		interval := DefaultConnectivityInterval
		if cfg != nil && cfg.ConnectivityInterval > 0 {
			interval = cfg.ConnectivityInterval
		}

		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.sweepModelConnectivity(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add connectivity sweep job")
		}
		log.Warn().Msgf("Model connectivity sweep scheduled: every %d minute(s)", interval)
	}

	if cfg == nil || cfg.InvitationSweepEnabled {
		interval := DefaultInvitationSweepInterval
		if cfg != nil && cfg.InvitationSweepInterval > 0 {
			interval = cfg.InvitationSweepInterval
		}

		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.sweepInvitationStatuses(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add invitation sweep job")
		}
		log.Warn().Msgf("Invitation status sweep scheduled: every %d minute(s)", interval)
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		// Reload config
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweepModelConnectivity(ctx context.Context) {
	log := logger.GetLogger()

	checked, err := c.modelService.SweepConnectivity(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Model connectivity sweep failed")
		return
	}
	if checked > 0 {
		log.Info().Msgf("Probed %d model endpoints", checked)
	}
}

func (c *Crontab) sweepInvitationStatuses(ctx context.Context) {
	log := logger.GetLogger()

	updated, err := c.invitationService.SweepStatuses(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Invitation status sweep failed")
		return
	}
	if updated > 0 {
		log.Info().Msgf("Expired %d invitations", updated)
	}
}
