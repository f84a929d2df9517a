package installer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pleiabot/internal/config"
	"github.com/sandevgo/pleiabot/internal/core"
)

type progressMsg float64
type downloadDoneMsg string

// DownloadGazetteerStep fetches the Pleiades places export into the runtime
// directory. An export already on disk is kept.
type DownloadGazetteerStep struct {
	url      string
	destPath string
	progress progress.Model
	updates  chan tea.Msg
	err      error
	done     bool
}

func NewDownloadGazetteerStep(url, runtimePath string) Step {
	return &DownloadGazetteerStep{
		url:      url,
		destPath: filepath.Join(runtimePath, config.GazetteerFileName),
		progress: progress.New(progress.WithDefaultGradient()),
		updates:  make(chan tea.Msg),
	}
}

func (s *DownloadGazetteerStep) Init() tea.Cmd {
	// Start download in background
	go s.doDownload()
	// Start listening for updates
	return s.waitForActivity()
}

func (s *DownloadGazetteerStep) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		return <-s.updates
	}
}

func (s *DownloadGazetteerStep) doDownload() {
	if err := download(s.url, s.destPath, func(p float64) { s.updates <- progressMsg(p) }); err != nil {
		s.updates <- errMsg(err)
		return
	}
	s.updates <- downloadDoneMsg(s.destPath)
}

// download writes url to destPath through a temporary file, so a watcher on
// destPath never sees a partial export.
func download(url, destPath string, onProgress func(float64)) error {
	if _, err := os.Stat(destPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", core.PleiaUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	reader := &progressReader{
		Reader:     resp.Body,
		Total:      resp.ContentLength,
		onProgress: onProgress,
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

func (s *DownloadGazetteerStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.progress.Width = width - 10

	switch msg := msg.(type) {
	case progressMsg:
		var cmds []tea.Cmd
		cmds = append(cmds, s.waitForActivity())
		cmds = append(cmds, s.progress.SetPercent(float64(msg)))
		return s, tea.Batch(cmds...)

	case downloadDoneMsg:
		state.Settings.GazetteerPath = string(msg)
		s.done = true
		return nil, nil

	case errMsg:
		s.err = msg
		return s, nil

	case progress.FrameMsg:
		progressModel, cmd := s.progress.Update(msg)
		s.progress = progressModel.(progress.Model)
		return s, cmd

	case tea.WindowSizeMsg:
		s.progress.Width = msg.Width - 10
	}

	return s, nil
}

func (s *DownloadGazetteerStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Download failed: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return fmt.Sprintf("Gazetteer ready at: %s\n", s.destPath)
	}

	return "Downloading the Pleiades places export...\nThis may take a few minutes depending on your connection.\n\n" +
		s.progress.View() + "\n"
}

type progressReader struct {
	io.Reader
	Total      int64
	Downloaded int64
	onProgress func(float64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Downloaded += int64(n)
	if pr.Total > 0 && pr.onProgress != nil {
		pr.onProgress(float64(pr.Downloaded) / float64(pr.Total))
	}
	return n, err
}
