package buildinfo

const Graffiti = " _____ ______   ___  \n|_   _||  _  \\ / _ \\ \n  | |  | | | |/ /_\\ \\\n  | |  | | | ||  _  |\n  | |  | |/ / | | | |\n  \\_/  |___/  \\_| |_/\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "TDA"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
