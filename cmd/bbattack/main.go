// Command bbattack runs a Bleichenbacher attack against an in-memory
// fixture oracle and prints the recovered plaintext. It exists to exercise
// the engine end to end; it does not speak TLS or any real wire protocol.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/paddingoracle/bleichenbacher"
	"github.com/paddingoracle/bleichenbacher/bblog"
	"github.com/paddingoracle/bleichenbacher/hexutil"
	"github.com/paddingoracle/bleichenbacher/internal/bbconfig"
	"github.com/paddingoracle/bleichenbacher/oracle"
	"github.com/paddingoracle/bleichenbacher/randutil"
)

const configPath = "config/bbattack.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	path := configPath
	if p := os.Getenv("BBATTACK_CONFIG"); p != "" {
		path = p
	}

	cfg, err := bbconfig.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := bblog.NewTextLogger(parseLevel(cfg.LogLevel))
	logger.Info("bbattack starting", "mode", cfg.Mode)

	orc, cBytes, err := buildFixture(cfg)
	if err != nil {
		return fmt.Errorf("building fixture: %w", err)
	}
	n, e := orc.PublicKey()
	k := orc.BlockSize()

	opts := []bleichenbacher.Option{bleichenbacher.WithLogger(logger)}
	if cfg.MaxQueries > 0 {
		opts = append(opts, bleichenbacher.WithMaxQueries(cfg.MaxQueries))
	}

	eng, err := bleichenbacher.NewEngine(cBytes, n, e, k, cfg.MsgIsPKCS, orc, opts...)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}

	res, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("running attack: %w", err)
	}

	logger.Info("attack succeeded",
		"solution", res.SolutionInt,
		"s0", res.S0,
		"iterations", res.Iterations,
		"oracle_queries", res.OracleQueries,
	)
	fmt.Printf("recovered plaintext: %x\n", res.SolutionBytes)

	return nil
}

// buildFixture constructs the oracle and target ciphertext named by cfg.
// It does not also return n, e and k: the caller gets those back from the
// Oracle itself via PublicKey/BlockSize, so there's exactly one source of
// truth for the modulus the returned ciphertext was built against.
func buildFixture(cfg bbconfig.Config) (orc oracle.Oracle, cBytes []byte, err error) {
	switch cfg.Mode {
	case "ciphertext":
		bits := cfg.KeyBits
		if bits == 0 {
			bits = 512
		}
		priv, genErr := oracle.GenerateKey(bits)
		if genErr != nil {
			return nil, nil, fmt.Errorf("generating key: %w", genErr)
		}
		k := (priv.N.BitLen() + 7) / 8
		co := oracle.NewCiphertextOracle(priv, k)

		cBytes, genErr = co.EncryptConformant([]byte("bbattack demo secret"))
		if genErr != nil {
			return nil, nil, fmt.Errorf("encrypting demo message: %w", genErr)
		}
		return co, cBytes, nil

	case "plaintext", "":
		k := cfg.BlockSize
		if k == 0 {
			k = 32
		}
		n := new(big.Int).Lsh(big.NewInt(1), uint(8*k-1))
		n.Sub(n, big.NewInt(1))
		e := big.NewInt(65537)

		po := oracle.NewPlaintextOracle(n, e, k)

		lo, hi := oracle.ConformantBounds(k)
		mStar, genErr := randutil.IntRange(lo, hi)
		if genErr != nil {
			return nil, nil, fmt.Errorf("picking demo plaintext: %w", genErr)
		}
		cBytes = make([]byte, k)
		mStar.FillBytes(cBytes)

		return po, cBytes, nil

	default:
		return nil, nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return bblog.LevelTrace
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
