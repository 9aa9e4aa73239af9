package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"airstage/internal/config"
	"airstage/internal/queue"
	"airstage/internal/station"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage station profiles",
	}

	profileCmd.AddCommand(newProfileInitCommand(ctx))
	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileListCommand(ctx))
	profileCmd.AddCommand(newProfileSetCommand(ctx))
	profileCmd.AddCommand(newProfileAliasCommand(ctx))
	profileCmd.AddCommand(newProfileDeleteCommand(ctx))

	return profileCmd
}

func (c *commandContext) requireStation() (string, error) {
	id := c.station()
	if id == "" {
		return "", errors.New("no station given; pass --station or set a default in the config")
	}
	return id, nil
}

func newProfileInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a station profile seeded with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.requireStation()
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				prof, err := profiles.GetOrCreate(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile ready for station %s (vendor %s, delivery %s)\n",
					prof.StationID, prof.Vendor, prof.Delivery.Method)
				return nil
			})
		},
	}
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a station profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.requireStation()
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				prof, err := profiles.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if prof == nil {
					return fmt.Errorf("station %s has no profile, run 'airstage profile init --station %s'", id, id)
				}

				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Station", prof.StationID},
					{"Name", prof.Name},
					{"Vendor", string(prof.Vendor)},
					{"Delivery method", string(prof.Delivery.Method)},
					{"Remote path", prof.Delivery.RemotePath},
					{"Sidecar", string(prof.Sidecar.Type)},
					{"File format", prof.Defaults.FileFormat},
					{"Default category", prof.Defaults.Category},
					{"EOM seconds", fmt.Sprintf("%.1f", prof.Defaults.EOMSeconds)},
					{"Target LUFS", fmt.Sprintf("%.1f", prof.Defaults.TargetLUFS)},
				}
				if prof.Delivery.Method == station.MethodS3 {
					rows = append(rows,
						[]string{"Bucket", prof.Delivery.Bucket},
						[]string{"Endpoint", prof.Delivery.Endpoint},
						[]string{"Path style", yesNo(prof.Delivery.ForcePathStyle)},
					)
				}
				if len(prof.CategoryAliases) > 0 {
					keys := make([]string, 0, len(prof.CategoryAliases))
					for k := range prof.CategoryAliases {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					pairs := make([]string, 0, len(keys))
					for _, k := range keys {
						pairs = append(pairs, k+"="+prof.CategoryAliases[k])
					}
					rows = append(rows, []string{"Category aliases", strings.Join(pairs, ", ")})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newProfileListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored station profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				all, err := profiles.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No station profiles stored")
					return nil
				}
				rows := make([][]string, 0, len(all))
				for _, prof := range all {
					rows = append(rows, []string{
						prof.StationID,
						string(prof.Vendor),
						string(prof.Delivery.Method),
						string(prof.Sidecar.Type),
						prof.Delivery.RemotePath,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Station", "Vendor", "Delivery", "Sidecar", "Remote path"}, rows, nil))
				return nil
			})
		},
	}
}

func newProfileSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name           string
		vendor         string
		method         string
		remotePath     string
		host           string
		port           int
		username       string
		password       string
		bucket         string
		region         string
		endpoint       string
		accessKey      string
		secretKey      string
		forcePathStyle bool
		sidecarType    string
		sidecarFields  []string
		fileFormat     string
		category       string
		eomSeconds     float64
		targetLUFS     float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update fields on a station profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.requireStation()
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				prof, err := profiles.GetOrCreate(cmd.Context(), id)
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					prof.Name = name
				}
				if flags.Changed("vendor") {
					v, ok := station.ParseVendor(vendor)
					if !ok {
						return fmt.Errorf("unknown vendor %q (known: %s)", vendor, joinVendors())
					}
					prof.Vendor = v
				}
				if flags.Changed("method") {
					m, ok := station.ParseMethod(method)
					if !ok {
						return fmt.Errorf("unknown delivery method %q (known: %s)", method, joinMethods())
					}
					prof.Delivery.Method = m
				}
				if flags.Changed("remote-path") {
					prof.Delivery.RemotePath = remotePath
				}
				if flags.Changed("host") {
					prof.Delivery.Host = host
				}
				if flags.Changed("port") {
					prof.Delivery.Port = port
				}
				if flags.Changed("username") {
					prof.Delivery.Username = username
				}
				if flags.Changed("password") {
					prof.Delivery.Password = password
				}
				if flags.Changed("bucket") {
					prof.Delivery.Bucket = bucket
				}
				if flags.Changed("region") {
					prof.Delivery.Region = region
				}
				if flags.Changed("endpoint") {
					prof.Delivery.Endpoint = endpoint
				}
				if flags.Changed("access-key") {
					prof.Delivery.AccessKeyID = accessKey
				}
				if flags.Changed("secret-key") {
					prof.Delivery.SecretKey = secretKey
				}
				if flags.Changed("path-style") {
					prof.Delivery.ForcePathStyle = forcePathStyle
				}
				if flags.Changed("sidecar") {
					st, ok := station.ParseSidecarType(sidecarType)
					if !ok {
						return fmt.Errorf("unknown sidecar type %q (known: %s)", sidecarType, joinSidecarTypes())
					}
					prof.Sidecar.Type = st
				}
				if flags.Changed("sidecar-field") {
					prof.Sidecar.Fields = sidecarFields
				}
				if flags.Changed("file-format") {
					prof.Defaults.FileFormat = fileFormat
				}
				if flags.Changed("default-category") {
					prof.Defaults.Category = category
				}
				if flags.Changed("eom") {
					prof.Defaults.EOMSeconds = eomSeconds
				}
				if flags.Changed("target-lufs") {
					prof.Defaults.TargetLUFS = targetLUFS
				}

				if err := profiles.Save(cmd.Context(), prof); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated profile for station %s\n", prof.StationID)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Human-readable station name")
	flags.StringVar(&vendor, "vendor", "", "Playout vendor: "+joinVendors())
	flags.StringVar(&method, "method", "", "Delivery method: "+joinMethods())
	flags.StringVar(&remotePath, "remote-path", "", "Remote base path for deliveries")
	flags.StringVar(&host, "host", "", "Delivery host")
	flags.IntVar(&port, "port", 0, "Delivery port")
	flags.StringVar(&username, "username", "", "Delivery username")
	flags.StringVar(&password, "password", "", "Delivery password")
	flags.StringVar(&bucket, "bucket", "", "S3 bucket")
	flags.StringVar(&region, "region", "", "S3 region")
	flags.StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	flags.StringVar(&accessKey, "access-key", "", "S3 access key id")
	flags.StringVar(&secretKey, "secret-key", "", "S3 secret key")
	flags.BoolVar(&forcePathStyle, "path-style", false, "Use path-style S3 addressing")
	flags.StringVar(&sidecarType, "sidecar", "", "Sidecar type: "+joinSidecarTypes())
	flags.StringSliceVar(&sidecarFields, "sidecar-field", nil, "Restrict sidecar fields (repeatable)")
	flags.StringVar(&fileFormat, "file-format", "", "Audio file extension for generated filenames")
	flags.StringVar(&category, "default-category", "", "Fallback category")
	flags.Float64Var(&eomSeconds, "eom", 0, "Default end-of-message offset in seconds")
	flags.Float64Var(&targetLUFS, "target-lufs", 0, "Loudness target in LUFS")
	return cmd
}

func newProfileAliasCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "alias <raw-category> [mapped-category]",
		Short: "Map a raw category onto a station category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.requireStation()
			if err != nil {
				return err
			}
			if !remove && len(args) != 2 {
				return errors.New("provide the mapped category, or --remove to delete the alias")
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				prof, err := profiles.GetOrCreate(cmd.Context(), id)
				if err != nil {
					return err
				}
				key := strings.ToLower(strings.TrimSpace(args[0]))
				if remove {
					delete(prof.CategoryAliases, key)
				} else {
					if prof.CategoryAliases == nil {
						prof.CategoryAliases = make(map[string]string)
					}
					prof.CategoryAliases[key] = strings.TrimSpace(args[1])
				}
				if err := profiles.Save(cmd.Context(), prof); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated aliases for station %s\n", prof.StationID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Delete the alias instead of setting it")
	return cmd
}

func newProfileDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete a station profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.requireStation()
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				removed, err := profiles.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("station %s has no profile", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile for station %s\n", id)
				return nil
			})
		},
	}
}

func joinVendors() string {
	parts := make([]string, 0, len(station.AllVendors()))
	for _, v := range station.AllVendors() {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

func joinMethods() string {
	parts := make([]string, 0, len(station.AllMethods()))
	for _, m := range station.AllMethods() {
		parts = append(parts, string(m))
	}
	return strings.Join(parts, ", ")
}

func joinSidecarTypes() string {
	parts := make([]string, 0, len(station.AllSidecarTypes()))
	for _, s := range station.AllSidecarTypes() {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}
