// Command witnessrep runs the witnessed-interaction reputation simulation:
// a single scenario, or a full parameter sweep, against an in-memory
// transport, writing a single run's results to disk (sweep results are only
// logged and kept in the status registry) and optionally serving a
// read-only status API (spec.md §8).
package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/execution-hub/witnessrep/internal/application/protocol"
	"github.com/execution-hub/witnessrep/internal/application/selection"
	"github.com/execution-hub/witnessrep/internal/application/simulate"
	"github.com/execution-hub/witnessrep/internal/application/verifier"
	"github.com/execution-hub/witnessrep/internal/config"
	"github.com/execution-hub/witnessrep/internal/domain/crypto"
	"github.com/execution-hub/witnessrep/internal/domain/identity"
	"github.com/execution-hub/witnessrep/internal/domain/message"
	"github.com/execution-hub/witnessrep/internal/domain/reputation"
	"github.com/execution-hub/witnessrep/internal/domain/simerr"
	"github.com/execution-hub/witnessrep/internal/domain/simulation"
	"github.com/execution-hub/witnessrep/internal/infrastructure/orgkeystore"
	"github.com/execution-hub/witnessrep/internal/infrastructure/runstore"
	"github.com/execution-hub/witnessrep/internal/infrastructure/statusapi"
	infratransport "github.com/execution-hub/witnessrep/internal/infrastructure/transport"
)

// newOrganization builds the scenario's organization identity. If a
// keystore-backed key exists for name it is used (a stable identity across
// restarts, for a production deployment); otherwise a fresh keypair is drawn
// from rng, deterministic under the scenario's seed.
func newOrganization(name string, averagePassesFloor float64, rng *rand.Rand, ks *orgkeystore.Store) (identity.Organization, error) {
	pub, priv, err := ks.GetOrgKey(name)
	if err != nil {
		pub, priv, err = ed25519.GenerateKey(rng)
		if err != nil {
			return identity.Organization{}, err
		}
	}
	pubMB, err := crypto.MultibaseEncode(pub)
	if err != nil {
		return identity.Organization{}, err
	}
	return identity.Organization{
		Name: name, Public: pub, Private: priv, PublicMultibase: pubMB,
		AveragePassesFloor: averagePassesFloor, CertificateLifetimeSeconds: 10_000_000,
	}, nil
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	root := &cobra.Command{
		Use:   "witnessrep",
		Short: "Simulate witnessed-interaction reputation scoring",
	}

	var lieRate float64
	var statusAddr string
	var overridesPath string
	root.PersistentFlags().Float64Var(&lieRate, "witness-lie-rate", 0, "what a witness drawn dishonest reports: >=1 always 'honest', otherwise a random report")
	root.PersistentFlags().StringVar(&statusAddr, "status-addr", cfg.StatusAddr, "if set, serve the read-only status API on this address")
	root.PersistentFlags().StringVar(&overridesPath, "overrides", "", "YAML file overriding the scenario's hard-coded config")

	registry := statusapi.NewRunRegistry()

	var snapshots *runstore.PostgresSnapshots
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		if err := runstore.RunMigrations(context.Background(), pool, "migrations"); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		snapshots = runstore.NewPostgresSnapshots(pool)
	}

	for _, name := range []string{"simple-run", "no-witness", "sweep-num-participants", "sweep-proximity", "sweep-reliability", "tampered-transcript"} {
		name := name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Run the %s scenario", name),
			RunE: func(cmd *cobra.Command, args []string) error {
				ov, err := loadOverrides(overridesPath)
				if err != nil {
					return err
				}
				ks, err := orgkeystore.NewFromEnv()
				if err != nil {
					return err
				}
				return runScenario(cmd.Context(), logger, cfg, registry, name, lieRate, ov, ks, snapshots)
			},
		})
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if statusAddr == "" {
			return nil
		}
		srv := statusapi.NewServer(registry)
		go func() {
			logger.Info().Str("addr", statusAddr).Msg("status API listening")
			if err := http.ListenAndServe(statusAddr, srv.Router()); err != nil {
				logger.Error().Err(err).Msg("status API stopped")
			}
		}()
		return nil
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("witnessrep: %v", err)
	}
}

func runScenario(ctx context.Context, logger zerolog.Logger, cfg *config.Config, registry *statusapi.RunRegistry, name string, lieRate float64, ov overrides, ks *orgkeystore.Store, snapshots *runstore.PostgresSnapshots) error {
	sc, ok := scenarioByName(name)
	if !ok {
		return fmt.Errorf("unknown scenario %q", name)
	}
	ov.apply(&sc)
	runID := newRunID()
	logger = logger.With().Str("runId", runID).Logger()
	logger.Info().Str("scenario", sc.name).Msg("starting scenario")

	if err := sc.config.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(sc.config.Seed))
	orgName := "acme"
	if ks.HasDefault() {
		orgName = ks.DefaultOrgName()
	}
	org, err := newOrganization(orgName, sc.config.AveragePassesFloor, rng, ks)
	if err != nil {
		return err
	}
	orgs := map[string]identity.Organization{org.Name: org}

	port := infratransport.RunLogged{Port: infratransport.NewMemoryChannel(), Logger: logger}

	if name == "tampered-transcript" {
		return runTamperedTranscriptDemo(ctx, logger, rng, port, org, orgs, sc)
	}

	if sc.sweep == nil {
		participants, err := buildParticipants(rng, sc.config, org.Name)
		if err != nil {
			return err
		}
		org.Members = didMultibases(participants)
		orgs[org.Name] = org

		repMap := reputation.NewMap(sc.config.DefaultReliability[0])
		strategies := lazyStrategies(allButFirstTwo(len(participants)), lieRate)

		failed := 0
		for i := 0; i < sc.config.Runs; i++ {
			_, err := simulate.RunInteraction(ctx, rng, port, i, participants, orgs, repMap, sc.config, strategies, sc.template)
			if err != nil {
				if !simerr.Local(err) {
					return err
				}
				logger.Warn().Err(err).Msg("interaction did not complete")
				failed++
				continue
			}
		}
		registry.Runs[sc.name] = repMap

		if snapshots != nil {
			if err := snapshots.SaveStep(ctx, runID, 0, repMap); err != nil {
				logger.Warn().Err(err).Msg("failed to persist reputation snapshot")
			}
		}

		logger.Info().Str("scenario", sc.name).Int("failed", failed).Int("total", sc.config.Runs).Msg("scenario finished")
		return runstore.WriteRunArtifacts(fmt.Sprintf("%s/%s-%s", cfg.OutputDir, sc.name, runID), sc.config, []*reputation.Map{repMap})
	}

	results, err := simulate.RunSweep(ctx, rng, port, sc.config, *sc.sweep, orgs, func(stepCfg simulation.Config) []identity.Participant {
		participants, err := buildParticipants(rng, stepCfg, org.Name)
		if err != nil {
			logger.Error().Err(err).Msg("failed to build participants for sweep step")
			return nil
		}
		org.Members = didMultibases(participants)
		orgs[org.Name] = org
		return participants
	}, lazyStrategies(nil, lieRate), sc.template)
	if err != nil {
		return err
	}
	registry.Sweeps[sc.name] = results

	best := simulate.ArgMin(results)
	logger.Info().Str("scenario", sc.name).Int("steps", len(results)).Float64("bestValue", results[best].Value).Float64("bestMSE", results[best].MSE).Msg("sweep finished")
	return nil
}

func didMultibases(participants []identity.Participant) []string {
	out := make([]string, len(participants))
	for i, p := range participants {
		out[i] = p.DIDMultibase
	}
	return out
}

func allButFirstTwo(n int) []int {
	var out []int
	for i := 2; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// runTamperedTranscriptDemo runs one interaction, flips a byte of the
// anchor's first participant signature, and confirms the verifier rejects
// the result — demonstrating that a corrupted transcript never passes
// silently (spec.md §4.5, property P6).
func runTamperedTranscriptDemo(ctx context.Context, logger zerolog.Logger, rng *rand.Rand, port infratransport.RunLogged, org identity.Organization, orgs map[string]identity.Organization, sc scenario) error {
	participants, err := buildParticipants(rng, sc.config, org.Name)
	if err != nil {
		return err
	}
	org.Members = didMultibases(participants)
	orgs[org.Name] = org

	repMap := reputation.NewMap(sc.config.DefaultReliability[0])
	sel, err := selection.Select(rng, participants, repMap, sc.config)
	if err != nil {
		return err
	}

	contract := message.Contract{
		Application: message.ExchangeApplication, AnnouncementHandle: sc.template.AnnouncementHandle,
		Offer: sc.template.Offer, Time: sc.template.Time, Timeout: sc.template.Timeout,
		Participants: []message.ParticipantRole{
			{DIDPubkey: participants[sel.Initiator].DIDMultibase, Role: "tn_a"},
			{DIDPubkey: participants[sel.Counterparty].DIDMultibase, Role: "tn_b"},
		},
	}

	certs := make(map[string]identity.OrganizationCertificate)
	for _, idx := range append([]int{sel.Initiator, sel.Counterparty}, sel.Witnesses...) {
		cert, err := org.Certify(participants[idx].DIDMultibase, contract.Time)
		if err != nil {
			return err
		}
		certs[participants[idx].DIDMultibase] = cert
	}

	outcome, err := protocol.Transact(ctx, rng, port, 0, contract, participants, certs, sel, nil)
	if err != nil {
		return err
	}

	outcome.Transcript[0].Message.Interaction.ParticipantSigs[0].Signature[0] ^= 0xFF

	_, verifyErr := verifier.VerifyTranscript(outcome.Transcript, contract.Time+1)
	if verifyErr == nil {
		return fmt.Errorf("tampered transcript was accepted, expected rejection")
	}
	logger.Info().Err(verifyErr).Msg("tampered transcript correctly rejected")
	return nil
}
