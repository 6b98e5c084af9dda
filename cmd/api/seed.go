package main

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"motogarage/internal/auth"
	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

// seedDemoData fills the in-memory store with a demo rider and a small garage
// so local development has something to look at.
func seedDemoData(ctx context.Context, directory *auth.Directory, motoRepo garage.Repository, taskRepo maintenance.Repository, logger *slog.Logger) {
	rider, err := directory.FindOrCreate(ctx, "demo-rider", "Demo Rider", "demo@motogarage.local")
	if err != nil {
		logger.Error("failed to seed demo rider", "error", err)
		return
	}

	now := time.Now().UTC()
	intp := func(v int) *int { return &v }
	datep := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	motos := []garage.Motorcycle{
		{
			ID:         uuid.New(),
			OwnerID:    rider.StableID,
			Name:       "Daily commuter",
			Maker:      "Honda",
			Model:      "CB500F",
			Year:       intp(2021),
			OdometerKm: intp(18400),
			Note:       "Chain gets noisy around 1000 km after lubing.",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         uuid.New(),
			OwnerID:    rider.StableID,
			Name:       "Weekend tourer",
			Maker:      "BMW",
			Model:      "R1250GS",
			Year:       intp(2019),
			OdometerKm: intp(42350),
			CreatedAt:  now.Add(1 * time.Minute),
			UpdatedAt:  now.Add(1 * time.Minute),
		},
	}

	for i := range motos {
		if _, err := motoRepo.Create(ctx, motos[i]); err != nil {
			logger.Error("failed to seed demo motorcycle", "error", err, "name", motos[i].Name)
			return
		}
	}

	commuter := motos[0]
	tourer := motos[1]

	doneAt := now.Add(-72 * time.Hour)
	tasks := []maintenance.Task{
		{
			ID:            uuid.New(),
			MotorcycleID:  commuter.ID,
			OwnerID:       rider.StableID,
			Title:         "Oil and filter change",
			Detail:        "10W-30, OEM filter.",
			Status:        maintenance.StatusOpen,
			DueOdometerKm: intp(20000),
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:           uuid.New(),
			MotorcycleID: commuter.ID,
			OwnerID:      rider.StableID,
			Title:        "Chain tension check",
			Status:       maintenance.StatusDone,
			CompletedAt:  &doneAt,
			CreatedAt:    now.Add(-96 * time.Hour),
			UpdatedAt:    doneAt,
		},
		{
			ID:           uuid.New(),
			MotorcycleID: tourer.ID,
			OwnerID:      rider.StableID,
			Title:        "Valve clearance inspection",
			Detail:       "Due at the 48k service.",
			Status:       maintenance.StatusOpen,
			DueDate:      datep(30 * 24 * time.Hour),
			CreatedAt:    now.Add(2 * time.Minute),
			UpdatedAt:    now.Add(2 * time.Minute),
		},
	}

	for i := range tasks {
		if _, err := taskRepo.Create(ctx, tasks[i]); err != nil {
			logger.Error("failed to seed demo task", "error", err, "title", tasks[i].Title)
			return
		}
	}

	logger.Info("seeded demo data", "rider", rider.Nickname, "stable_id", rider.StableID)
}
