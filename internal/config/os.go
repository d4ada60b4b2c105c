package config

import "os"

type OSInterface interface {
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
	Environ() []string
	Stat(name string) (os.FileInfo, error)
	ReadFile(filename string) ([]byte, error)
}

var defaultOS = OSInterface(osAdapter{})

type osAdapter struct{}

func (osAdapter) Getenv(key string) string                 { return os.Getenv(key) }
func (osAdapter) LookupEnv(key string) (string, bool)      { return os.LookupEnv(key) }
func (osAdapter) Environ() []string                        { return os.Environ() }
func (osAdapter) Stat(name string) (os.FileInfo, error)    { return os.Stat(name) }
func (osAdapter) ReadFile(filename string) ([]byte, error) { return os.ReadFile(filename) }
