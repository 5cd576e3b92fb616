package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wisdomtree/internal/ipc"
)

// Controller is the subset of the IPC client the interface drives. It
// is an interface so tests can run against a fake daemon.
type Controller interface {
	Status() (*ipc.StatusResponse, error)
	TimerStart(ipc.TimerStartRequest) (*ipc.TimerStartResponse, error)
	TimerPause() (*ipc.TimerControlResponse, error)
	TimerResume() (*ipc.TimerControlResponse, error)
	TimerRestart() (*ipc.TimerControlResponse, error)
	TimerStop() (*ipc.TimerControlResponse, error)
	PlayerPlay() (*ipc.PlayerControlResponse, error)
	PlayerToggle() (*ipc.PlayerControlResponse, error)
	PlayerNext() (*ipc.PlayerControlResponse, error)
	PlayerPrev() (*ipc.PlayerControlResponse, error)
	SetVolume(ipc.VolumeRequest) (*ipc.VolumeResponse, error)
	ToggleMute() (*ipc.MuteResponse, error)
	ToggleLoop() (*ipc.LoopResponse, error)
	ToggleEffects() (*ipc.EffectsResponse, error)
	AdjustEffectVolume(delta int) (*ipc.EffectVolumeResponse, error)
	RadioTune(ipc.RadioTuneRequest) (*ipc.RadioTuneResponse, error)
	RadioStop() (*ipc.RadioStopResponse, error)
	StationList() (*ipc.StationListResponse, error)
	Quote(rotate bool) (*ipc.QuoteResponse, error)
}

// mode selects which overlay the scene is showing.
type mode int

const (
	modeScene mode = iota
	modeMenu
	modeStations
)

// menuEntry is one selectable line in the preset menu.
type menuEntry struct {
	label        string
	presetIndex  int
	workMinutes  int
	breakMinutes int
}

// Model is the bubbletea model for the full-screen scene.
type Model struct {
	ctrl   Controller
	status ipc.StatusResponse
	err    error

	width  int
	height int

	mode     mode
	menu     []menuEntry
	cursor   int
	stations []ipc.Station

	// quoteShown counts how many runes of the quote have been typed out
	// so far. Quotes carry multi-byte punctuation, so the reveal must
	// never split inside a rune.
	quoteShown int
	quoteRunes []rune
	lastQuote  string

	// notice is a transient banner cleared a few seconds after it was
	// set.
	notice   string
	noticeAt time.Time
}

// noticeDuration is how long a banner stays on screen.
const noticeDuration = 5 * time.Second

type statusMsg ipc.StatusResponse
type stationsMsg []ipc.Station
type errMsg struct{ err error }
type tickMsg time.Time

// New builds the scene model. Pairs of work and break minutes populate
// the preset menu in order; they should mirror the daemon's configured
// table so a menu selection maps to a preset index.
func New(ctrl Controller, pairs [][2]int) Model {
	entries := make([]menuEntry, 0, len(pairs)+1)
	for i, pair := range pairs {
		entries = append(entries, menuEntry{
			label:        presetLabel(pair[0], pair[1]),
			presetIndex:  i,
			workMinutes:  pair[0],
			breakMinutes: pair[1],
		})
	}
	return Model{ctrl: ctrl, menu: entries}
}

// Init starts status polling and the animation clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollStatus(), m.tick())
}

func (m Model) pollStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(*status)
	}
}

func (m Model) fetchStations() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.ctrl.StationList()
		if err != nil {
			return errMsg{err}
		}
		return stationsMsg(resp.Stations)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and key input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		prevPhase := m.status.Timer.Phase
		m.status = ipc.StatusResponse(msg)
		m.err = nil
		if m.status.Quote != m.lastQuote {
			m.lastQuote = m.status.Quote
			m.quoteRunes = []rune(m.status.Quote)
			m.quoteShown = 0
		}
		if banner := phaseBanner(prevPhase, m.status.Timer.Phase); banner != "" {
			m.notice = banner
			m.noticeAt = time.Now()
		}
		return m, nil

	case stationsMsg:
		m.stations = msg
		m.mode = modeStations
		m.cursor = 0
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		if m.notice != "" && time.Since(m.noticeAt) > noticeDuration {
			m.notice = ""
		}
		if m.quoteShown < len(m.quoteRunes) {
			m.quoteShown += 2
			if m.quoteShown > len(m.quoteRunes) {
				m.quoteShown = len(m.quoteRunes)
			}
		}
		return m, tea.Batch(m.pollStatus(), m.tick())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeMenu:
		return m.handleMenuKey(msg)
	case modeStations:
		return m.handleStationKey(msg)
	}
	return m.handleSceneKey(msg)
}

func (m Model) handleSceneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t", "enter":
		switch m.status.Timer.Phase {
		case "idle":
			m.mode = modeMenu
			m.cursor = 0
		case "break_over":
			return m, m.control(func() error { _, err := m.ctrl.TimerRestart(); return err })
		}
		return m, nil
	case " ":
		switch m.status.Timer.Phase {
		case "work", "break":
			if m.status.Timer.Paused {
				return m, m.control(func() error { _, err := m.ctrl.TimerResume(); return err })
			}
			return m, m.control(func() error { _, err := m.ctrl.TimerPause(); return err })
		}
		return m, m.control(func() error { _, err := m.ctrl.PlayerToggle(); return err })
	case "s":
		if m.status.Timer.Phase != "idle" {
			return m, m.control(func() error { _, err := m.ctrl.TimerStop(); return err })
		}
		return m, nil
	case "p":
		return m, m.control(func() error { _, err := m.ctrl.PlayerPlay(); return err })
	case "n", "l", "right":
		return m, m.control(func() error { _, err := m.ctrl.PlayerNext(); return err })
	case "b", "h", "left":
		return m, m.control(func() error { _, err := m.ctrl.PlayerPrev(); return err })
	case "m":
		return m, m.control(func() error { _, err := m.ctrl.ToggleMute(); return err })
	case "i":
		return m, m.fetchStations()
	case "o":
		return m, m.control(func() error { _, err := m.ctrl.RadioStop(); return err })
	case "]", "+", "up", "k":
		return m, m.control(func() error {
			_, err := m.ctrl.SetVolume(ipc.VolumeRequest{Delta: 5})
			return err
		})
	case "[", "-", "down", "j":
		return m, m.control(func() error {
			_, err := m.ctrl.SetVolume(ipc.VolumeRequest{Delta: -5})
			return err
		})
	case "}":
		return m, m.control(func() error { _, err := m.ctrl.AdjustEffectVolume(5); return err })
	case "{":
		return m, m.control(func() error { _, err := m.ctrl.AdjustEffectVolume(-5); return err })
	case "r":
		return m, m.control(func() error { _, err := m.ctrl.ToggleLoop(); return err })
	case "u":
		return m, m.control(func() error { _, err := m.ctrl.ToggleEffects(); return err })
	case "w":
		return m, m.control(func() error { _, err := m.ctrl.Quote(true); return err })
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeScene
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
		return m, nil
	case "enter", " ":
		if len(m.menu) == 0 {
			m.mode = modeScene
			return m, nil
		}
		entry := m.menu[m.cursor]
		m.mode = modeScene
		return m, m.control(func() error {
			_, err := m.ctrl.TimerStart(ipc.TimerStartRequest{
				PresetIndex:  entry.presetIndex,
				WorkMinutes:  entry.workMinutes,
				BreakMinutes: entry.breakMinutes,
			})
			return err
		})
	}
	return m, nil
}

func (m Model) handleStationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeScene
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.stations)-1 {
			m.cursor++
		}
		return m, nil
	case "enter", " ":
		if len(m.stations) == 0 {
			m.mode = modeScene
			return m, nil
		}
		index := m.cursor
		m.mode = modeScene
		m.notice = "Tuning " + m.stations[index].Name + "..."
		m.noticeAt = time.Now()
		return m, m.control(func() error {
			_, err := m.ctrl.RadioTune(ipc.RadioTuneRequest{StationIndex: index})
			return err
		})
	}
	return m, nil
}

// phaseBanner maps a timer phase transition to a transient banner.
func phaseBanner(prev, next string) string {
	if prev == next {
		return ""
	}
	switch {
	case prev == "work" && next == "break":
		return "Work complete. Break started."
	case next == "break_over":
		return "Break over. Press enter to go again."
	case prev == "break" && next == "idle":
		return "Break over. Session complete."
	case prev == "work" && next == "idle":
		return "Session complete."
	}
	return ""
}

// control runs a daemon call and refreshes status afterwards.
func (m Model) control(call func() error) tea.Cmd {
	poll := m.pollStatus()
	return func() tea.Msg {
		if err := call(); err != nil {
			return errMsg{err}
		}
		return poll()
	}
}
