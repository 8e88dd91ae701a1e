package vidthumb

import (
	"fmt"
	"os/exec"
	"regexp"

	"github.com/hashicorp/go-version"
)

var (
	ffmpegVersionPattern      = regexp.MustCompile(`ffmpeg version n?([0-9.]+)`)
	thumbnailerVersionPattern = regexp.MustCompile(`ffmpegthumbnailer version:? ([0-9.]+)`)

	minFfmpegVersion      = version.Must(version.NewVersion("4.0.0"))
	minThumbnailerVersion = version.Must(version.NewVersion("2.0.0"))
)

// versionArg returns a flag printing the backend version
func versionArg(backend Backend) string {
	if backend == BackendThumbnailer {
		return "-v"
	}

	return "-version"
}

// ParseExtractorVersion finds a version number in the output of a backend's version flag
func ParseExtractorVersion(backend Backend, output string) (*version.Version, error) {
	pattern := ffmpegVersionPattern
	if backend == BackendThumbnailer {
		pattern = thumbnailerVersionPattern
	}

	if match := pattern.FindStringSubmatch(output); len(match) > 1 {
		ver, err := version.NewVersion(match[1])
		if err != nil {
			return nil, fmt.Errorf("wrong %s version reported: %s :%w", backend, match[1], err)
		}

		return ver, nil
	}

	return nil, fmt.Errorf("cannot find %s version", backend)
}

// GetExtractorVersion returns extractor version number, e.g. 2.2.2 or 6.0
func GetExtractorVersion(backend Backend, path string) (*version.Version, error) {
	output, err := exec.Command(path, versionArg(backend)).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("cannot check %s version: %w", backend, err)
	}

	return ParseExtractorVersion(backend, string(output))
}

// CheckMinVersion verifies that ver meets the minimal version requirement of a backend
func CheckMinVersion(backend Backend, ver *version.Version) error {
	minVersion := minFfmpegVersion
	if backend == BackendThumbnailer {
		minVersion = minThumbnailerVersion
	}

	if ver.LessThan(minVersion) {
		return fmt.Errorf("%s is too old: required %s, current %s", backend, minVersion, ver)
	}

	return nil
}

// VerifyExtractorVersion verifies that the provided binary meets the minimal version requirement
func VerifyExtractorVersion(backend Backend, path string) error {
	ver, err := GetExtractorVersion(backend, path)
	if err != nil {
		return err
	}

	return CheckMinVersion(backend, ver)
}

// FindBinary finds path to a binary in OS $PATH variable
func FindBinary(name string) (string, error) {
	binPath, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("cannot find %s binary in OS $PATH variable: %w", name, err)
	}

	return binPath, nil
}

func getVerifiedExtractorPath(backend Backend, binPath string, skipVersionCheck bool) (string, error) {
	if len(binPath) == 0 {
		realPath, err := FindBinary(string(backend))
		if err != nil {
			return "", err
		}

		binPath = realPath
	}

	if skipVersionCheck {
		return binPath, nil
	}

	if err := VerifyExtractorVersion(backend, binPath); err != nil {
		return "", err
	}

	return binPath, nil
}

func getFfprobePath(binPath string) (string, error) {
	if len(binPath) == 0 {
		return FindBinary("ffprobe")
	}

	return binPath, nil
}
