// Command rbacctl là CLI vận hành cho RBAC Admin: tạo index, seed dữ liệu mặc định,
// đồng bộ bộ đếm usercode và thống kê số user theo role.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"rbac_admin/config"
	"rbac_admin/internal/api/initsvc"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	"rbac_admin/internal/logger"

	"github.com/spf13/cobra"
)

// openFunc mở storage theo cấu hình; test thay bằng memstore dùng chung
type openFunc func(ctx context.Context, cfg *config.Configuration, ensureIndexes bool) (*initsvc.Storage, error)

type cli struct {
	envFile   string
	outFormat string // "json" | "text"
	timeout   time.Duration
	out       io.Writer
	open      openFunc
}

// roleUsage là một dòng kết quả của role-usage
type roleUsage struct {
	RoleName string `json:"roleName"`
	Count    int64  `json:"count"`
}

func (c *cli) loadConfig() (*config.Configuration, error) {
	if c.envFile != "" {
		return config.NewConfig(c.envFile)
	}
	return config.NewConfig()
}

// withServices mở storage, dựng service rồi gọi fn; storage luôn được đóng
func (c *cli) withServices(ctx context.Context, ensureIndexes bool, fn func(context.Context, *config.Configuration, *rbacsvc.Services) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	storage, err := c.open(ctx, cfg, ensureIndexes)
	if err != nil {
		return err
	}
	defer storage.Close()

	return fn(ctx, cfg, rbacsvc.NewServices(storage.Repositories))
}

func (c *cli) print(v any, text func(w io.Writer)) error {
	if c.outFormat == "json" {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(c.out)
	return nil
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "rbacctl",
		Short:         "CLI vận hành cho RBAC Admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.outFormat != "json" && c.outFormat != "text" {
				return fmt.Errorf("--out phải là json hoặc text, nhận %q", c.outFormat)
			}
			return logger.Init(nil)
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "File env (mặc định config/env/<GO_ENV>.env)")
	root.PersistentFlags().StringVar(&c.outFormat, "out", "text", "Định dạng output: json|text")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Timeout cho toàn bộ lệnh")

	ensureIndexesCmd := &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Tạo database, collection và index từ struct tag của model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StorageMongo {
				return errors.New("ensure-indexes cần STORAGE_DRIVER=mongo")
			}
			return c.withServices(cmd.Context(), true, func(_ context.Context, cfg *config.Configuration, _ *rbacsvc.Services) error {
				return c.print(map[string]any{"database": cfg.MongoDB_DBName, "ok": true}, func(w io.Writer) {
					fmt.Fprintf(w, "indexes ensured on %s\n", cfg.MongoDB_DBName)
				})
			})
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Tạo permissions/roles mặc định còn thiếu (không ghi đè)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), false, func(ctx context.Context, cfg *config.Configuration, services *rbacsvc.Services) error {
				file := seedFile
				if file == "" {
					file = cfg.SeedFile
				}
				data, err := rbacsvc.LoadSeedFile(file)
				if err != nil {
					return err
				}
				report, err := services.Seed(ctx, data)
				if err != nil {
					return err
				}
				return c.print(report, func(w io.Writer) {
					fmt.Fprintf(w, "permissions created: %d\nroles created: %d\n", report.PermissionsCreated, report.RolesCreated)
				})
			})
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "File seed yaml (mặc định SEED_FILE)")

	syncCmd := &cobra.Command{
		Use:   "sync-usercode",
		Short: "Nâng bộ đếm usercode lên bằng usercode lớn nhất đã lưu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), false, func(ctx context.Context, _ *config.Configuration, services *rbacsvc.Services) error {
				seq, err := services.Users.SyncUsercode(ctx)
				if err != nil {
					return err
				}
				return c.print(map[string]int64{"seq": seq}, func(w io.Writer) {
					fmt.Fprintf(w, "usercode counter: %d\n", seq)
				})
			})
		},
	}

	roleUsageCmd := &cobra.Command{
		Use:   "role-usage [roleName...]",
		Short: "Đếm số user theo role (không truyền tên = tất cả role)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(cmd.Context(), false, func(ctx context.Context, _ *config.Configuration, services *rbacsvc.Services) error {
				names := args
				if len(names) == 0 {
					roles, err := services.Roles.List(ctx, "")
					if err != nil {
						return err
					}
					for _, role := range roles {
						names = append(names, role.Name)
					}
				}

				usage := make([]roleUsage, 0, len(names))
				for _, name := range names {
					count, err := services.Users.CountUsersWithRole(ctx, name)
					if err != nil {
						return fmt.Errorf("count users with role %s: %w", name, err)
					}
					usage = append(usage, roleUsage{RoleName: name, Count: count})
				}

				return c.print(usage, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ROLE\tUSERS")
					for _, u := range usage {
						fmt.Fprintf(tw, "%s\t%d\n", u.RoleName, u.Count)
					}
					_ = tw.Flush()
				})
			})
		},
	}

	root.AddCommand(ensureIndexesCmd, seedCmd, syncCmd, roleUsageCmd)
	return root
}

func main() {
	c := &cli{out: os.Stdout, open: initsvc.OpenStorage}
	err := newRootCmd(c).Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
