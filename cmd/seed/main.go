// seed carga items desde un CSV al almacén configurado (STORE_DRIVER), atribuyendo
// cada alta al usuario de la sesión.
//
// Uso: go run ./cmd/seed [--latin1] [--email admin@example.com] items.csv
//
// Columnas (primera fila, en cualquier orden): name, category, supplier, quantity,
// min_quantity, price, description, image, location. Las tres primeras son obligatorias.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/inventory-system/internal/application/auth"
	"github.com/jhoicas/inventory-system/internal/application/inventory"
	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/infrastructure/kvstore"
	"github.com/jhoicas/inventory-system/pkg/config"
	"github.com/jhoicas/inventory-system/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run devuelve el código de salida: 2 uso incorrecto, 1 error. Los defers corren antes de salir.
func run() int {
	latin1 := pflag.Bool("latin1", false, "el CSV está en ISO-8859-1 (exportado desde Excel)")
	email := pflag.String("email", auth.DemoUsers[0].Email, "usuario con el que se inicia sesión")
	password := pflag.String("password", "", "contraseña (las cuentas demo aceptan cualquiera)")
	dryRun := pflag.Bool("dry-run", false, "valida el archivo sin escribir")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [flags] items.csv")
		pflag.PrintDefaults()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("abrir CSV")
		return 1
	}
	defer f.Close()

	rows, rowErrs, err := parseItems(f, *latin1)
	if err != nil {
		log.Error().Err(err).Msg("leer CSV")
		return 1
	}
	for _, re := range rowErrs {
		log.Warn().Int("line", re.Line).Err(re.Err).Msg("fila descartada")
	}
	log.Info().Int("valid", len(rows)).Int("invalid", len(rowErrs)).Msg("CSV leído")
	if *dryRun {
		return 0
	}

	ctx := context.Background()
	kv, closer, err := kvstore.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("abrir almacén")
		return 1
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacén")
		}
	}()

	txLedger := ledger.New(kv, log.Component("ledger"), ledger.WithKey(cfg.Store.TransactionsKey))
	if err := txLedger.Init(ctx); err != nil {
		log.Error().Err(err).Msg("cargar historial")
		return 1
	}
	store := inventory.New(kv, txLedger, log.Component("inventory"), inventory.WithKey(cfg.Store.ItemsKey))
	if err := store.Init(ctx); err != nil {
		log.Error().Err(err).Msg("cargar inventario")
		return 1
	}

	authUC := auth.NewAuthUseCase(kvstore.NewUserRepository(kv, log.Component("users")), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.LoginDelay)
	session := auth.NewSession(authUC, kv, log.Component("session"))
	if err := session.Init(ctx); err != nil {
		log.Error().Err(err).Msg("restaurar sesión")
		return 1
	}
	if u, ok := session.CurrentUser(); !ok || u.Email != *email {
		ok, err := session.Login(ctx, *email, *password)
		if err != nil {
			log.Error().Err(err).Msg("login")
			return 1
		}
		if !ok {
			log.Error().Str("email", *email).Msg("credenciales inválidas")
			return 1
		}
	}

	created := 0
	for _, row := range rows {
		if _, err := store.AddItem(ctx, session.ActorName(), row.Item); err != nil {
			log.Error().Int("line", row.Line).Err(err).Msg("alta de item")
			continue
		}
		created++
	}
	log.Info().
		Int("created", created).
		Str("user", session.ActorName()).
		Int("items", store.Len()).
		Msg("seed finalizado")
	return 0
}
