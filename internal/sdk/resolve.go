// internal/sdk/resolve.go
package sdk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv is the environment variable naming the SDK root folder.
const RootEnv = "SD_SDK_ROOT"

// SamplesBin is the SDK-relative folder holding the native modules.
var SamplesBin = filepath.Join("samples", "win", "bin")

var (
	ErrRootNotFound   = errors.New("sdk: root folder not found")
	ErrBinDirNotFound = errors.New("sdk: samples bin folder not found")
)

// Env is a resolved SDK installation.
// It is a plain value: resolving never touches the process environment.
type Env struct {
	Root       string
	BinDir     string
	ConfigPath string
}

// Resolve locates the SDK. An empty root falls back to $SD_SDK_ROOT.
func Resolve(root string) (Env, error) {
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		return Env{}, fmt.Errorf("%w: set %s or pass a root", ErrRootNotFound, RootEnv)
	}
	if !isDir(root) {
		return Env{}, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	bin := filepath.Join(root, SamplesBin)
	if !isDir(bin) {
		return Env{}, fmt.Errorf("%w: %s", ErrBinDirNotFound, bin)
	}

	return Env{
		Root:       root,
		BinDir:     bin,
		ConfigPath: filepath.Join(bin, "sd.config"),
	}, nil
}

// ProductLibrary is the path of the library file for a product.
func (e Env) ProductLibrary(product string) string {
	return filepath.Join(e.Root, "products", product+".library")
}

// ModuleEnv lists the variables a native SDK module expects, for callers
// that spawn it as a child process.
func (e Env) ModuleEnv() []string {
	return []string{
		"SD_MODULE_PATH=" + e.BinDir + string(filepath.Separator),
		"SD_CONFIG_PATH=" + e.ConfigPath,
	}
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
