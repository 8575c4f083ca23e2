package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filerepo"
	"github.com/gobeaver/filerepo/filevalidator"
)

// settings holds flag values that override the environment config
type settings struct {
	root         string
	allowUnknown bool
	typesFile    string
	builtin      string
	verbose      bool
}

// rootCommand creates and returns the root command
func rootCommand() *cobra.Command {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:           "filerepo",
		Short:         "Sandboxed file repository with type verification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.root, "root", "", "root directory (overrides FILEREPO_ROOT_DIR)")
	flags.BoolVar(&s.allowUnknown, "allow-unknown", false, "accept MIME types without a registered verifier")
	flags.StringVar(&s.typesFile, "types-file", "", "YAML file with type descriptors")
	flags.StringVar(&s.builtin, "builtin", "", "comma-separated built-in types to register, or \"all\"")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		saveCommand(s),
		catCommand(s),
		existsCommand(s),
		rmCommand(s),
		rmdirCommand(s),
		lsCommand(s),
		typesCommand(s),
	)

	return rootCmd
}

// open loads the environment config, applies flag overrides and builds the repository.
func (s *settings) open(cmd *cobra.Command) (*filerepo.Repository, error) {
	cfg, err := filerepo.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.RootDir = s.root
	}
	if flags.Changed("allow-unknown") {
		cfg.AllowUnknownTypes = s.allowUnknown
	}
	if flags.Changed("types-file") {
		cfg.TypesFile = s.typesFile
	}
	if flags.Changed("builtin") {
		cfg.BuiltinTypes = s.builtin
	}
	if strings.EqualFold(strings.TrimSpace(cfg.BuiltinTypes), "all") {
		cfg.BuiltinTypes = strings.Join(filevalidator.BuiltinNames(), ",")
	}

	return filerepo.New(cfg, filerepo.WithLogger(s.logger(cmd.ErrOrStderr())))
}

func (s *settings) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if s.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func saveCommand(s *settings) *cobra.Command {
	var mimeType string
	var checksum string

	cmd := &cobra.Command{
		Use:   "save <name> <local-file>",
		Short: "Verify a local file and store it under name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			var opts []filerepo.SaveOption
			if checksum != "" {
				opts = append(opts, filerepo.WithChecksum(filerepo.ChecksumAlgorithm(checksum)))
			}

			result, err := repo.Save(cmd.Context(), args[0], mimeType, f, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%d bytes", result.Path, result.Size)
			if result.Checksum != "" {
				fmt.Fprintf(out, "\t%s:%s", result.ChecksumAlgorithm, result.Checksum)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mimeType, "type", "t", "", "claimed MIME type (required)")
	cmd.Flags().StringVar(&checksum, "checksum", "", "checksum algorithm to report")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func catCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <name>",
		Short: "Write a stored file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}

			rc, err := repo.OpenRead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		},
	}
}

func existsCommand(s *settings) *cobra.Command {
	var dir bool

	cmd := &cobra.Command{
		Use:   "exists <path>",
		Short: "Report whether a file (or directory with --dir) exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}

			var exists bool
			if dir {
				exists, err = repo.DirectoryExists(cmd.Context(), args[0])
			} else {
				exists, err = repo.FileExists(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dir, "dir", false, "check for a directory")
	return cmd
}

func rmCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete stored files; missing files are ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}

			for _, name := range args {
				if err := repo.DeleteFile(cmd.Context(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func rmdirCommand(s *settings) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a directory; a missing directory is ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}
			return repo.DeleteDirectory(cmd.Context(), args[0], recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete contents too")
	return cmd
}

func lsCommand(s *settings) *cobra.Command {
	var (
		pattern   string
		recursive bool
		dirs      bool
	)

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List files (or directories with --dirs) relative to the root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := s.open(cmd)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			opts := []filerepo.ListOption{
				filerepo.WithPattern(pattern),
				filerepo.WithRecursive(recursive),
			}

			var entries []string
			if dirs {
				entries, err = repo.ListDirectories(cmd.Context(), path, opts...)
			} else {
				entries, err = repo.ListFiles(cmd.Context(), path, opts...)
			}
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "*", "base name pattern")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include all descendants")
	cmd.Flags().BoolVar(&dirs, "dirs", false, "list directories instead of files")
	return cmd
}

func typesCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Show the built-in file types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range filevalidator.BuiltinNames() {
				desc, _ := filevalidator.Builtin(name)
				fmt.Fprintf(out, "%-5s %-8s % X  %s\n", name, strings.Join(desc.Extensions, ","), desc.Magic, desc.MIMEType)
			}
			return nil
		},
	}
}
