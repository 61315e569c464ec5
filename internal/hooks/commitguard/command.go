package commitguard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

const successMessage = "Message validated"

// ErrInvalidUTF8 is returned when the message file is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

var issueRe = regexp.MustCompile(IssuePattern)

type options struct {
	// set through Option
	branches BranchReader
	patterns Patterns
	version  string
	getenv   func(string) string

	// set through flags
	branchSource string
	repoDir      string
	noColor      bool
	verbose      bool
}

// Option customizes the command built by NewCommand and Execute.
type Option func(*options)

// WithBranchReader replaces the branch lookup selected by --branch-source.
func WithBranchReader(r BranchReader) Option {
	return func(o *options) {
		o.branches = r
	}
}

// WithPatterns replaces DefaultPatterns.
func WithPatterns(p Patterns) Option {
	return func(o *options) {
		o.patterns = p
	}
}

// WithVersion sets the version reported by --version.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithGetenv replaces os.Getenv for reading NO_COLOR.
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		patterns: DefaultPatterns(),
		version:  "dev",
		getenv:   os.Getenv,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// NewCommand returns the commit-msg-guard root command. It prints the
// confirmation on success and returns the refusal as error otherwise.
// Arguments after the message file are ignored.
func NewCommand(opts ...Option) *cobra.Command {
	return newCommand(newOptions(opts))
}

func newCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit-msg-guard <message-file>",
		Short: "Validate the current branch name and the commit message",
		Long: "commit-msg-guard is a git commit-msg hook. It refuses commits on exempt branches,\n" +
			"on branches not named like " + BranchExample + " and with messages not shaped like\n" +
			"\"" + MessageExample + "\".",
		Args:          cobra.MinimumNArgs(1),
		Version:       o.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}

	cmd.Flags().StringVar(&o.branchSource, "branch-source", SourceGit,
		fmt.Sprintf("How to read the current branch: %q runs git, %q reads the repository in-process", SourceGit, SourceGoGit))
	cmd.Flags().StringVarP(&o.repoDir, "repo", "C", ".", "Repository directory")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored diagnostics")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	return cmd
}

// Execute runs the command with args and returns the process exit code:
// 0 if the commit may proceed, 1 for every refusal or failure.
func Execute(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer, opts ...Option) int {
	o := newOptions(opts)

	// cobra falls back to os.Args for nil args.
	if args == nil {
		args = []string{}
	}

	cmd := newCommand(o)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	writeDiagnostic(stderr, err, o.colorEnabled())

	return 1
}

func (o *options) run(ctx context.Context, stdout io.Writer, stderr io.Writer, messageFile string) error {
	logger := newLogger(stderr, o.verbose)

	validator, err := New(o.patterns)
	if err != nil {
		return fmt.Errorf("invalid patterns: %w", err)
	}

	branches := o.branches
	if branches == nil {
		branches, err = NewBranchReader(o.branchSource, o.repoDir)
		if err != nil {
			return err
		}

		logger.Debug("reading branch name",
			slog.String("source", o.branchSource),
			slog.String("repo", o.repoDir))
	}

	branch, err := branches.BranchName(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(messageFile)
	if err != nil {
		return fmt.Errorf("failed to read commit message: %w", err)
	}

	if !utf8.Valid(data) {
		return fmt.Errorf("failed to read commit message: %w", ErrInvalidUTF8)
	}

	message := string(data)
	parsed := ParseCommitMessage(message)

	logger.Debug("validating commit",
		slog.String("branch", branch),
		slog.String("title", parsed.Title),
		slog.Bool("has_body", parsed.Body != ""))

	if issue, ok := ExtractRef(branch, issueRe); ok {
		logger.Debug("branch references issue", slog.String("issue", issue))
	}

	if issue, ok := ExtractRef(parsed.Title, issueRe); ok {
		logger.Debug("message references issue", slog.String("issue", issue))
	}

	err = validator.Validate(message, branch)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Debug("commit refused", slog.String("kind", verr.Kind.String()))
		}

		return err
	}

	_, err = fmt.Fprintln(stdout, successMessage)
	if err != nil {
		return fmt.Errorf("failed to write confirmation: %w", err)
	}

	return nil
}

func (o *options) colorEnabled() bool {
	if o.noColor {
		return false
	}

	return o.getenv("NO_COLOR") == ""
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// writeDiagnostic prints err as the single diagnostic of a failed run.
func writeDiagnostic(w io.Writer, err error, color bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		_, _ = fmt.Fprintln(w, verr.Render(color))
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
