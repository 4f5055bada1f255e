package config

import (
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Load", Label("scope:unit", "layer:config"), func() {
	It("writes and returns the defaults when no file exists", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "settings.json")
		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.FPS).To(Equal(20))
		Expect(cfg.ComputerPlayers).To(Equal(50))
	})

	It("round-trips a written file on the second load", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "settings.json")
		_, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.CrosshairColor).To(Equal("pink"))
	})

	It("computes aspect ratio from X and Y", func() {
		cfg := Default()
		Expect(cfg.AspectRatio()).To(BeNumerically("~", 29.0/64.0, 1e-9))
	})

	It("respects a hand-edited file's values", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "settings.json")
		_, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		cfg, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		cfg.FPS = 60
		Expect(writeJSON(path, cfg)).To(Succeed())
		reloaded, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.FPS).To(Equal(60))
	})
})
