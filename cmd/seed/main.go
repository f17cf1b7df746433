// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the dev admin (admin@hospital.local) already exists.
// Everything after the bootstrap admin goes through the real services, so the
// seeded records come with a realistic audit trail.
package main

import (
	"context"
	"log"
	"time"

	auditpkg "hospital-records/internal/audit"
	auditrepo "hospital-records/internal/audit/repository"
	"hospital-records/internal/config"
	"hospital-records/internal/db"
	patientdomain "hospital-records/internal/patient/domain"
	patientrepo "hospital-records/internal/patient/repository"
	patientservice "hospital-records/internal/patient/service"
	reportdomain "hospital-records/internal/report/domain"
	reportrepo "hospital-records/internal/report/repository"
	reportservice "hospital-records/internal/report/service"
	requestdomain "hospital-records/internal/request/domain"
	requestrepo "hospital-records/internal/request/repository"
	requestservice "hospital-records/internal/request/service"
	"hospital-records/internal/requestctx"
	userdomain "hospital-records/internal/user/domain"
	userrepo "hospital-records/internal/user/repository"
	userservice "hospital-records/internal/user/service"
)

const (
	adminEmail       = "admin@hospital.local"
	radiologistEmail = "radiologist@hospital.local"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if existing != nil {
		log.Printf("seed: %s already exists, skipping", adminEmail)
		return
	}

	writer := auditpkg.NewWriter(auditrepo.NewPostgresRepository(conn), nil)
	userSvc := userservice.NewUserService(users, writer)
	patients := patientrepo.NewPostgresRepository(conn)
	patientSvc := patientservice.NewPatientService(patients, writer)
	requests := requestrepo.NewPostgresRepository(conn)
	requestSvc := requestservice.NewRequestService(requests, patients, writer)
	reportSvc := reportservice.NewReportService(reportrepo.NewPostgresRepository(conn), requests, patients, writer)

	// Bootstrap admin: no actor exists yet, so this mutation produces no audit entry.
	admin, err := userSvc.Create(ctx, &userdomain.User{
		Email:     adminEmail,
		FirstName: "Dev",
		LastName:  "Admin",
		Role:      userdomain.RoleAdmin,
		Status:    userdomain.UserStatusActive,
	})
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Everything below acts as the admin; request metadata mimics a local session.
	ctx = requestctx.WithActor(ctx, admin.ID)
	ctx = requestctx.WithClientIP(ctx, "127.0.0.1")
	ctx = requestctx.WithUserAgent(ctx, "seed/1.0")

	radiologist, err := userSvc.Create(ctx, &userdomain.User{
		Email:     radiologistEmail,
		FirstName: "Rhea",
		LastName:  "Varma",
		Role:      userdomain.RoleRadiologist,
		Status:    userdomain.UserStatusActive,
	})
	if err != nil {
		log.Fatalf("seed radiologist: %v", err)
	}

	p1, err := patientSvc.Create(ctx, &patientdomain.Patient{
		MRN:         "MRN-0001",
		FirstName:   "Arun",
		LastName:    "Nair",
		DateOfBirth: time.Date(1968, 3, 14, 0, 0, 0, 0, time.UTC),
		Sex:         "male",
		Phone:       "+1-555-0101",
	})
	if err != nil {
		log.Fatalf("seed patient: %v", err)
	}
	if _, err := patientSvc.Create(ctx, &patientdomain.Patient{
		MRN:         "MRN-0002",
		FirstName:   "Maya",
		LastName:    "Thomas",
		DateOfBirth: time.Date(1991, 11, 2, 0, 0, 0, 0, time.UTC),
		Sex:         "female",
		Phone:       "+1-555-0102",
	}); err != nil {
		log.Fatalf("seed patient: %v", err)
	}

	req, err := requestSvc.Create(ctx, &requestdomain.Request{
		PatientID:   p1.ID,
		ExamType:    "chest x-ray",
		Indication:  "persistent cough, 3 weeks",
		RequestedBy: admin.ID,
	})
	if err != nil {
		log.Fatalf("seed request: %v", err)
	}
	req.Status = requestdomain.StatusCompleted
	if _, err := requestSvc.Update(ctx, req); err != nil {
		log.Fatalf("seed request update: %v", err)
	}

	if _, err := reportSvc.Create(ctx, &reportdomain.Report{
		RequestID:  req.ID,
		Findings:   "No focal consolidation. Mild hyperinflation.",
		Impression: "No acute cardiopulmonary process.",
		Status:     reportdomain.StatusFinalized,
	}); err != nil {
		log.Fatalf("seed report: %v", err)
	}

	log.Printf("seed: done (admin %s, radiologist %s)", admin.ID, radiologist.ID)
}
