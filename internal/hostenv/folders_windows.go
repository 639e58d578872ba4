//go:build windows

package hostenv

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

var knownFolders = map[Folder]*windows.KNOWNFOLDERID{
	LocalAppData:    windows.FOLDERID_LocalAppData,
	CommonAppData:   windows.FOLDERID_ProgramData,
	ProgramFiles:    windows.FOLDERID_ProgramFiles,
	ProgramFilesX86: windows.FOLDERID_ProgramFilesX86,
}

var folderEnv = map[Folder]string{
	LocalAppData:    "LOCALAPPDATA",
	CommonAppData:   "ProgramData",
	ProgramFiles:    "ProgramFiles",
	ProgramFilesX86: "ProgramFiles(x86)",
}

func osFolders() map[Folder]string {
	folders := make(map[Folder]string, len(knownFolders))
	for f, id := range knownFolders {
		path, err := windows.KnownFolderPath(id, windows.KF_FLAG_DEFAULT)
		if err != nil || path == "" {
			path = os.Getenv(folderEnv[f])
		}
		if path != "" {
			folders[f] = path
		}
	}
	return folders
}

func systemDrive() string {
	drive := os.Getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	return filepath.VolumeName(drive) + `\`
}

func executableExts(pathext string) []string {
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	return parsePathExt(pathext)
}
