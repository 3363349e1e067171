package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okian/evalhub/internal/config"
	"github.com/okian/evalhub/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const gsmNotes = "# GSM8K\n\n```bash\ninspect eval inspect_evals/gsm8k\n```\n"

func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("gsm8k/eval.yaml", "title: GSM8K\ngroup: Mathematics\ntags: [math]\ntasks:\n  - name: gsm8k\n    dataset_samples: 1319\n    human_baseline:\n      score: 0.92\n")
	write("gsm8k/README.md", gsmNotes)
	write("humaneval/eval.yaml", "title: HumanEval\ngroup: Coding\ndependency: docker\n")
	write("mmlu_math/eval.yaml", "title: MMLU Math\ngroup: Mathematics\n")
	write("_template/eval.yaml", "title: Template\n")
	write("broken/eval.yaml", "title: [unclosed\n")
	return root
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns what it printed.
func execute(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	Convey("Given a benchmark root", t, func() {
		root := fixtureRoot(t)

		Convey("When listing everything", func() {
			out, err := execute("list", "--root", root)

			Convey("Then every benchmark should appear under its group", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "=== Coding (1) ===")
				So(out, ShouldContainSubstring, "=== Mathematics (2) ===")
				So(out, ShouldContainSubstring, "HumanEval [sandbox]")
				So(out, ShouldContainSubstring, "1,319")
				So(out, ShouldContainSubstring, "3 benchmarks")
				So(out, ShouldNotContainSubstring, "_template")
				So(strings.Index(out, "Coding"), ShouldBeLessThan, strings.Index(out, "Mathematics"))
			})
		})

		Convey("When filtering by group and text", func() {
			out, err := execute("list", "--root", root, "--group", "Mathematics", "-q", "gsm")

			Convey("Then only matches should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "gsm8k")
				So(out, ShouldNotContainSubstring, "mmlu_math")
				So(out, ShouldContainSubstring, "1 benchmark\n")
			})
		})

		Convey("When the query is positional and matches nothing", func() {
			out, err := execute("list", "--root", root, "no-such-benchmark")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "No benchmarks match.")
		})

		Convey("When asking for JSON", func() {
			out, err := execute("ls", "--root", root, "--json", "--group", "All")

			Convey("Then the snapshot shape should be printed", func() {
				So(err, ShouldBeNil)
				var snap struct {
					Evals []map[string]any `json:"evals"`
					Total int              `json:"total"`
				}
				So(json.Unmarshal([]byte(out), &snap), ShouldBeNil)
				So(snap.Total, ShouldEqual, 3)
				So(snap.Evals[0]["id"], ShouldEqual, "gsm8k")
			})
		})
	})

	Convey("Given a root that does not exist", t, func() {
		_, err := execute("list", "--root", filepath.Join(t.TempDir(), "missing"))
		So(err, ShouldNotBeNil)
	})

	Convey("Given an invalid mode flag", t, func() {
		_, err := execute("list", "--mode", "cached")
		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestShowCommand(t *testing.T) {
	Convey("Given a benchmark root", t, func() {
		root := fixtureRoot(t)

		Convey("When showing a benchmark with notes", func() {
			out, err := execute("show", "gsm8k", "--root", root)

			Convey("Then metadata, tasks and the run command should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldStartWith, "GSM8K (gsm8k)\n[Mathematics] [math]\n")
				So(out, ShouldContainSubstring, "1,319 across 1 task\n")
				So(out, ShouldContainSubstring, "0.92")
				So(out, ShouldContainSubstring, "=== Run Command ===\n  inspect eval inspect_evals/gsm8k")
				So(out, ShouldNotContainSubstring, "=== README ===")
			})
		})

		Convey("When asking for the notes", func() {
			out, err := execute("show", "gsm8k", "--root", root, "--notes")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "=== README ===\n# GSM8K")
		})

		Convey("When showing a benchmark without notes as JSON", func() {
			out, err := execute("show", "humaneval", "--root", root, "--json")

			Convey("Then no usage should be included", func() {
				So(err, ShouldBeNil)
				var d map[string]any
				So(json.Unmarshal([]byte(out), &d), ShouldBeNil)
				So(d["id"], ShouldEqual, "humaneval")
				So(d["dependency"], ShouldEqual, "docker")
				_, ok := d["runCommand"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the id is unknown or excluded", func() {
			for _, id := range []string{"nope", "_template", "broken"} {
				_, err := execute("show", id, "--root", root)
				So(errors.Is(err, ErrUnknownBenchmark), ShouldBeTrue)
			}
		})
	})
}

func TestGroupsCommand(t *testing.T) {
	Convey("Given a benchmark root", t, func() {
		root := fixtureRoot(t)

		out, err := execute("groups", "--root", root)
		So(err, ShouldBeNil)
		So(out, ShouldEqual, "Coding\nMathematics\n")

		out, err = execute("groups", "--root", root, "--json")
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, `"Coding"`)
	})
}

func TestGenerateCommand(t *testing.T) {
	Convey("Given a benchmark root", t, func() {
		root := fixtureRoot(t)
		path := filepath.Join(t.TempDir(), "public", "evals.json")

		Convey("When generating a snapshot", func() {
			out, err := execute("generate", "--root", root, "--out", path)

			Convey("Then the file should hold every benchmark and the report should be printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Wrote 3 benchmarks to "+path)
				So(out, ShouldContainSubstring, "scanned 5, skipped 1, failed 1")
				So(out, ShouldContainSubstring, filepath.Join(root, "broken", "eval.yaml"))

				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"total":3`)
				So(string(raw), ShouldNotContainSubstring, `"notes"`)
			})

			Convey("Then snapshot mode should serve it without rescanning", func() {
				So(os.MkdirAll(filepath.Join(root, "arc"), 0o755), ShouldBeNil)
				So(os.WriteFile(filepath.Join(root, "arc", "eval.yaml"), []byte("title: ARC\n"), 0o644), ShouldBeNil)

				out, err := execute("list", "--root", root, "--mode", "snapshot", "--snapshot", path)
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "3 benchmarks")
				So(out, ShouldNotContainSubstring, "arc")

				out, err = execute("list", "--root", root)
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "4 benchmarks")
			})
		})

		Convey("When the root is unreadable", func() {
			_, err := execute("generate", "--root", filepath.Join(root, "missing"), "--out", path)

			Convey("Then nothing should be written", func() {
				So(err, ShouldNotBeNil)
				_, statErr := os.Stat(path)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})
}

func TestRemoteCommands(t *testing.T) {
	Convey("Given a running server", t, func() {
		root := fixtureRoot(t)
		c := config.New()
		c.EvalsRoot = root
		c.Mode = config.ModeLive

		ctx := context.Background()
		svc := newService(c)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newHandler(ctx, svc, c))
		defer ts.Close()

		Convey("When listing remotely", func() {
			out, err := execute("list", "--remote", ts.URL, "--group", "Coding")

			Convey("Then filters should be applied to the fetched catalog", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "humaneval")
				So(out, ShouldNotContainSubstring, "gsm8k")
			})
		})

		Convey("When showing remotely", func() {
			out, err := execute("show", "gsm8k", "--remote", ts.URL)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "inspect eval inspect_evals/gsm8k")

			_, err = execute("show", "nope", "--remote", ts.URL)
			So(errors.Is(err, ErrUnknownBenchmark), ShouldBeTrue)
		})

		Convey("When listing groups remotely", func() {
			out, err := execute("groups", "--remote", ts.URL)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "Coding\nMathematics\n")
		})

		Convey("When browsing the UI and docs", func() {
			for _, target := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz"} {
				resp, err := http.Get(ts.URL + target)
				So(err, ShouldBeNil)
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestServe(t *testing.T) {
	Convey("Given a server on a free port", t, func() {
		root := fixtureRoot(t)
		c := config.New()
		c.EvalsRoot = root

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		svc := newService(c)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		srv := &http.Server{Handler: newHandler(ctx, svc, c), ReadHeaderTimeout: time.Second}

		done := make(chan error, 1)
		go func() { done <- serve(ctx, srv, ln, logger.Nop()) }()

		Convey("When a request is made and the context is cancelled", func() {
			resp, err := http.Get("http://" + ln.Addr().String() + "/api/groups")
			So(err, ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			cancel()

			Convey("Then it should answer and shut down cleanly", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "Mathematics")
				select {
				case err := <-done:
					So(err, ShouldBeNil)
				case <-time.After(5 * time.Second):
					So("server did not stop", ShouldBeEmpty)
				}
			})
		})
	})
}

func TestVersionCommand(t *testing.T) {
	Convey("Given the version command", t, func() {
		out, err := execute("version")
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "Version:    dev")
		So(out, ShouldContainSubstring, "Commit:     n/a")
	})
}
