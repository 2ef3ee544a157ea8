//go:build integration

package integration

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rathamcloud/rcsetup/internal/domain"
	"github.com/rathamcloud/rcsetup/internal/usecase"
)

var _ = Describe("Host Provisioning", func() {
	var (
		host *fakeHost
		cfg  domain.InstallConfig
	)

	BeforeEach(func() {
		host = newFakeHost()
		cfg = domain.InstallConfig{
			InstallDir:  "/opt/rathamcloud",
			StoragePool: "default",
			RepoURL:     "https://example.com/bot.git",
		}
	})

	Describe("Install", func() {
		Context("on a fresh host", func() {
			It("should provision everything and end with the service active", func() {
				inst := host.installer("tok-abc", "424242")

				got, err := inst.Run(context.Background(), cfg)
				Expect(err).NotTo(HaveOccurred())

				s := host.state
				Expect(s.packages).To(HaveLen(5))
				Expect(s.daemonInstalled).To(BeTrue())
				Expect(s.daemonStarted).To(BeTrue())
				Expect(s.daemonInit).To(BeTrue())
				Expect(s.pools).To(HaveKey("default"))
				Expect(s.cloned).To(BeTrue())
				Expect(s.requirements).To(BeTrue())
				Expect(s.wrapperPresent).To(BeTrue())
				Expect(s.wrapperTarget).To(Equal("/snap/bin/lxc"))

				Expect(s.env[domain.EnvKeyDiscordToken]).To(Equal("tok-abc"))
				Expect(s.env[domain.EnvKeyMainAdminID]).To(Equal("424242"))
				Expect(s.env[domain.EnvKeyUserRoleID]).To(Equal("424242"))
				Expect(s.env[domain.EnvKeyStoragePool]).To(Equal("default"))

				state := domain.ServiceStateOf(s.unitInstalled, s.unitEnabled, s.unitActive)
				Expect(state).To(Equal(domain.ServiceActive))
				Expect(got.DiscordToken).To(Equal("tok-abc"))
			})
		})

		Context("when the daemon socket appears slowly", func() {
			It("should keep polling until the socket is up", func() {
				host.daemon.socketDelay = 10
				inst := host.installer("tok", "1")

				_, err := inst.Run(context.Background(), cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(host.state.unitActive).To(BeTrue())
			})
		})

		Context("when the daemon socket never appears", func() {
			It("should fail with the socket-wait error after the attempt budget", func() {
				host.daemon.socketDelay = usecase.SocketMaxAttempts + 1
				inst := host.installer("tok", "1")

				_, err := inst.Run(context.Background(), cfg)
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, domain.ErrSocketWaitExhausted)).To(BeTrue())
				Expect(host.state.cloned).To(BeFalse(), "later stages must not run")
			})
		})

		Context("when re-run on an already provisioned host", func() {
			It("should converge without duplicating host mutations", func() {
				_, err := host.installer("tok", "1").Run(context.Background(), cfg)
				Expect(err).NotTo(HaveOccurred())

				installsBefore := host.state.pkgInstalls
				poolsBefore := host.state.poolCreates

				_, err = host.installer("tok2", "2").Run(context.Background(), cfg)
				Expect(err).NotTo(HaveOccurred())

				s := host.state
				Expect(s.pkgInstalls).To(Equal(installsBefore), "present packages are not reinstalled")
				Expect(s.poolCreates).To(Equal(poolsBefore), "the pool is not recreated")
				Expect(s.unitActive).To(BeTrue())

				// The second capture wins.
				Expect(s.env[domain.EnvKeyDiscordToken]).To(Equal("tok2"))
				Expect(s.env[domain.EnvKeyMainAdminID]).To(Equal("2"))
			})
		})
	})

	Describe("Uninstall", func() {
		BeforeEach(func() {
			_, err := host.installer("tok", "1").Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		Context("when both destructive gates are declined", func() {
			It("should remove the service and wrapper but keep data and daemon", func() {
				err := host.uninstaller(false, "n", "n").Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				s := host.state
				Expect(s.unitInstalled).To(BeFalse())
				Expect(s.unitActive).To(BeFalse())
				Expect(s.wrapperPresent).To(BeFalse())

				Expect(s.installDirPresent).To(BeTrue(), "declined gate keeps the bot data")
				Expect(s.daemonInstalled).To(BeTrue(), "declined gate keeps the daemon")
				Expect(s.pools).To(HaveKey("default"))
			})
		})

		Context("when both destructive gates are accepted", func() {
			It("should remove the data and the daemon with its pools", func() {
				err := host.uninstaller(false, "yes", "Y").Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				s := host.state
				Expect(s.installDirPresent).To(BeFalse())
				Expect(s.env).To(BeNil())
				Expect(s.daemonInstalled).To(BeFalse())
				Expect(s.pools).To(BeEmpty())
			})
		})

		Context("when only the daemon gate is accepted", func() {
			It("should keep the data but remove the daemon", func() {
				err := host.uninstaller(false, "no", "y").Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(host.state.installDirPresent).To(BeTrue())
				Expect(host.state.daemonInstalled).To(BeFalse())
			})
		})

		Context("with --yes", func() {
			It("should remove everything without prompting", func() {
				err := host.uninstaller(true).Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(host.state.installDirPresent).To(BeFalse())
				Expect(host.state.daemonInstalled).To(BeFalse())
			})
		})

		Context("followed by a reinstall", func() {
			It("should provision the host again from scratch", func() {
				Expect(host.uninstaller(true).Run(context.Background())).To(Succeed())

				_, err := host.installer("tok3", "3").Run(context.Background(), cfg)
				Expect(err).NotTo(HaveOccurred())

				s := host.state
				Expect(s.daemonInstalled).To(BeTrue())
				Expect(s.unitActive).To(BeTrue())
				Expect(s.env[domain.EnvKeyDiscordToken]).To(Equal("tok3"))
			})
		})
	})
})
