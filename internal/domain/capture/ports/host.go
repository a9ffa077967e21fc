package ports

// Host is the recorder/host capability the controller drives. Implementations
// exist per supported host; the core never depends on a concrete binding.
type Host interface {
	IsPlayingBack() bool
	IsRecording() bool

	// BeginCapture starts recording into path (session directory + artifact name).
	BeginCapture(path string) error
	EndCapture() error

	LoadMap(mapID string) error
	LoadSave(saveID string) error

	// PlayCapture starts playback of a previously recorded artifact.
	PlayCapture(name string) error
}

// CapturePositioner is an optional Host capability reporting the position
// (tick) of the active capture. Bookmarks require it.
type CapturePositioner interface {
	CurrentCapturePosition() (int, bool)
}
