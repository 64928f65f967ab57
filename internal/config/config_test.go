package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetConnectStrFromParts(t *testing.T) {
	c := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "slidescope",
		Password: "pw",
		DBName:   "slides",
	}
	require.Equal(t,
		"postgres://slidescope:pw@localhost:5432/slides?sslmode=disable",
		c.GetConnectStr())
}

func TestGetConnectStrPrefersURL(t *testing.T) {
	c := &DatabaseConfig{
		URL:  "postgres://u:p@db/slides",
		Host: "ignored",
	}
	require.Equal(t, "postgres://u:p@db/slides", c.GetConnectStr())
}

func TestGetConnectStrEncodesOptions(t *testing.T) {
	c := &DatabaseConfig{
		Host:    "db",
		Port:    "5432",
		User:    "u",
		DBName:  "slides",
		Options: "-c search_path=public",
	}
	require.Contains(t, c.GetConnectStr(), "&options=-c%20search_path=public")
}

func TestEnabledFlags(t *testing.T) {
	require.False(t, (&DatabaseConfig{}).Enabled())
	require.True(t, (&DatabaseConfig{URL: "x"}).Enabled())
	require.True(t, (&DatabaseConfig{Host: "db"}).Enabled())

	require.False(t, (&AIConfig{}).Enabled())
	require.True(t, (&AIConfig{Key: "k"}).Enabled())
}
