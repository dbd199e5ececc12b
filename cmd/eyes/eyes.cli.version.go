package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionSearchDirs are tried in order for versions.yaml
var versionSearchDirs = []string{".", "..", filepath.Join("..", "..")}

// versionInfo is the resolved build information, also the JSON output shape.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	Tag       string `json:"tag,omitempty"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
		Tag    string `yaml:"tag"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var format string
	fs.StringVar(&format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&format, FlagFormatShort, FlagDefaultFormat, "")

	err := fs.Parse(args)
	if err == nil && !validFormat(format) {
		err = errors.New(format)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	v := loadVersionInfo(versionSearchDirs)
	if format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(v, "", JSONIndent)
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		v.Version, v.Commit, v.Branch, v.BuildTime, v.GoVersion)
	return ExitCodeSuccess
}

// loadVersionInfo reads the first parseable versions.yaml found in dirs.
// Missing values are reported as unknown.
func loadVersionInfo(dirs []string) *versionInfo {
	v := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, VersionsFileName))
		if err != nil {
			continue
		}
		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		setIfPresent(&v.Version, vy.Project.Version)
		setIfPresent(&v.Commit, vy.Git.Commit)
		setIfPresent(&v.Branch, vy.Git.Branch)
		setIfPresent(&v.BuildTime, vy.Build.Time)
		setIfPresent(&v.GoVersion, vy.Build.GoVersion)
		v.Tag = vy.Git.Tag
		break
	}

	return v
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
