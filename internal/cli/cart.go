package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/chaverito-api/internal/app/cart"
	"github.com/mrops-br/chaverito-api/internal/app/dto"
	"github.com/mrops-br/chaverito-api/internal/app/service"
	"github.com/mrops-br/chaverito-api/internal/domain"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/repository/memory"
	kvsqlite "github.com/mrops-br/chaverito-api/internal/infrastructure/storage/sqlite"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/telemetry"
)

// localCart is one cart persisted in a SQLite file together with the
// seeded catalog it refers to
type localCart struct {
	store    *cart.Store
	repo     *memory.CatalogRepository
	service  *service.CartService
	shipping domain.ShippingPolicy
	db       *kvsqlite.KeyValueStore
}

func (a *app) openLocalCart(ctx context.Context, dbPath string, stderr io.Writer) (*localCart, error) {
	shipping, err := a.cfg.ShippingPolicy()
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		dbPath = a.cfg.Storage.SQLitePath
	}

	logger := telemetry.NewLogger(stderr, a.cfg)
	tracer := tracenoop.NewTracerProvider().Tracer("chaverito-cli")
	meter := metricnoop.NewMeterProvider().Meter("chaverito-cli")

	db, err := kvsqlite.Open(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open cart database")
	}

	repo := memory.NewCatalogRepository(tracer, logger)
	if err := repo.Seed(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "seed catalog")
	}

	return &localCart{
		store:    cart.NewStore(ctx, db, a.cfg.Storage.CartKey, tracer, meter, logger),
		repo:     repo,
		service:  service.NewCartService(repo, shipping, tracer, logger),
		shipping: shipping,
		db:       db,
	}, nil
}

func (c *localCart) productID(ctx context.Context, slug string) (string, error) {
	p, err := c.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return "", errors.Wrapf(err, "product %q", slug)
	}
	return p.ID, nil
}

func (c *localCart) print(w io.Writer) {
	lines := c.store.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "Cart is empty")
		return
	}

	for _, l := range lines {
		fmt.Fprintf(w, "%-24s %3d x R$ %s = R$ %s\n",
			l.Slug, l.Quantity, domain.FormatBRL(l.UnitPrice), domain.FormatBRL(l.Subtotal()))
	}

	s := c.store.Summary(c.shipping)
	fmt.Fprintf(w, "Items: %d\n", s.TotalItems)
	fmt.Fprintf(w, "Subtotal: R$ %s\n", domain.FormatBRL(s.Subtotal))
	if s.FreeShipping {
		fmt.Fprintln(w, "Shipping: free")
	} else {
		fmt.Fprintf(w, "Shipping: R$ %s (R$ %s more for free shipping)\n",
			domain.FormatBRL(s.Shipping), domain.FormatBRL(s.RemainingForFreeShipping))
	}
	fmt.Fprintf(w, "Total: R$ %s\n", domain.FormatBRL(s.Total))
}

func newCartCommand(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit a local cart",
		Long: `Inspect and edit the cart stored in a local SQLite file.

Products are referred to by slug, for example stitch-classic.`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite file holding the cart (defaults to storage.sqlite_path)")

	// run opens the cart, applies fn and prints the result
	run := func(fn func(ctx context.Context, c *localCart, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			c, err := a.openLocalCart(ctx, dbPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = c.db.Close() }()

			if err := fn(ctx, c, args); err != nil {
				return err
			}
			c.print(cmd.OutOrStdout())
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the cart with its totals",
			Args:  cobra.NoArgs,
			RunE: run(func(context.Context, *localCart, []string) error {
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add <slug> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: run(func(ctx context.Context, c *localCart, args []string) error {
				id, err := c.productID(ctx, args[0])
				if err != nil {
					return err
				}
				quantity := 1
				if len(args) == 2 {
					if quantity, err = parseQuantity(args[1]); err != nil {
						return err
					}
				}
				_, err = c.service.AddProduct(ctx, c.store, &dto.AddCartItemRequest{ProductID: id, Quantity: quantity})
				return err
			}),
		},
		&cobra.Command{
			Use:   "set <slug> <quantity>",
			Short: "Set the quantity of a cart line, 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, c *localCart, args []string) error {
				id, err := c.productID(ctx, args[0])
				if err != nil {
					return err
				}
				quantity, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				_, err = c.service.UpdateQuantity(ctx, c.store, id, quantity)
				return err
			}),
		},
		&cobra.Command{
			Use:   "remove <slug>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, c *localCart, args []string) error {
				id, err := c.productID(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = c.service.Remove(ctx, c.store, id)
				return err
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *localCart, _ []string) error {
				_, err := c.service.Clear(ctx, c.store)
				return err
			}),
		},
	)

	return cmd
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil || q < 0 {
		return 0, errors.Wrapf(domain.ErrInvalidQuantity, "quantity %q", s)
	}
	return q, nil
}
