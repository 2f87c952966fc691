// Command purge hard-deletes a person and everything it owns. It is the only
// way to remove person rows; the HTTP API only voids.
//
//	purge -person <uuid> -actor <uuid>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"demographics/internal/person/service"
	addressStore "demographics/internal/person/store/address"
	attributeStore "demographics/internal/person/store/attribute"
	attributeTypeStore "demographics/internal/person/store/attributetype"
	nameStore "demographics/internal/person/store/name"
	personStore "demographics/internal/person/store/person"
	"demographics/internal/platform/config"
	"demographics/internal/platform/logger"
	"demographics/internal/platform/postgres"
	id "demographics/pkg/domain"
	auditpublisher "demographics/pkg/platform/audit/publisher"
	auditpostgres "demographics/pkg/platform/audit/store/postgres"
	"demographics/pkg/platform/tx"
	"demographics/pkg/requestcontext"
)

func main() {
	_ = godotenv.Load()

	personFlag := flag.String("person", "", "id of the person to purge")
	actorFlag := flag.String("actor", "", "id of the user performing the purge")
	flag.Parse()

	if err := run(*personFlag, *actorFlag); err != nil {
		fmt.Fprintf(os.Stderr, "purge: %v\n", err)
		os.Exit(1)
	}
}

func run(rawPerson, rawActor string) error {
	personID, err := id.ParsePersonID(rawPerson)
	if err != nil {
		return err
	}
	actorID, err := id.ParseActorID(rawActor)
	if err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if !cfg.UsePostgres() {
		return fmt.Errorf("DATABASE_URL is required")
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	publisher := auditpublisher.NewPublisher(auditpostgres.New(db), auditpublisher.WithLogger(log))
	defer publisher.Close()

	svc, err := service.New(service.Stores{
		Persons:        personStore.NewPostgres(db),
		Names:          nameStore.NewPostgres(db),
		Addresses:      addressStore.NewPostgres(db),
		Attributes:     attributeStore.NewPostgres(db),
		AttributeTypes: attributeTypeStore.NewPostgres(db),
	}, tx.NewPostgresRunner(db, cfg.Server.TxTimeout),
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	ctx = requestcontext.WithActor(ctx, actorID)
	ctx = requestcontext.WithRequestID(ctx, "purge-"+personID.String())
	if err := svc.PurgePerson(ctx, personID); err != nil {
		return err
	}
	log.InfoContext(ctx, "person purged", "person_id", personID.String(), "actor_id", actorID.String())
	return nil
}
