package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v0 "github.com/stacklok/rust-tracker/internal/api/v0"
	"github.com/stacklok/rust-tracker/internal/notify"
	"github.com/stacklok/rust-tracker/internal/service"
	"github.com/stacklok/rust-tracker/internal/store"
	pkgsync "github.com/stacklok/rust-tracker/internal/sync"
	"github.com/stacklok/rust-tracker/test-integration/tracker/helpers"
)

const (
	apiSecret = "integration-secret"
	tenantID  = "guild-1"
	sourceID  = "srv-1"
	channelID = "chan-1"
)

var _ = Describe("Tracker", Ordered, func() {
	var (
		roster *helpers.RosterMockServer
		server *helpers.ServerTestHelper
	)

	BeforeAll(func() {
		roster = helpers.NewRosterMockServer()
		configPath := helpers.WriteConfigYAML(GinkgoT().TempDir(), roster.URL, apiSecret)
		server = helpers.NewServerTestHelper(ctx, configPath, apiSecret)

		By("seeding a tenant with a tracking channel and a known player")
		st := server.Store()
		Expect(st.UpsertTenantConfig(ctx, store.TenantConfig{
			TenantID:       tenantID,
			ServerIP:       "203.0.113.7",
			ServerPort:     28082,
			RosterSourceID: sourceID,
		})).To(Succeed())
		Expect(st.AddTrackingChannel(ctx, tenantID, channelID)).To(Succeed())
		_, err := st.UpsertTeamMember(ctx, tenantID, store.TeamMember{
			SteamID: "76561198000000001",
			Name:    "Alice",
		}, time.Now())
		Expect(err).To(Succeed())

		Expect(server.StartServer()).To(Succeed())
		server.WaitForServerReady(10 * time.Second)

		By("waiting for the startup roster pass")
		Eventually(func() *time.Time {
			resp, err := server.Get("/status")
			if err != nil {
				return nil
			}
			var current service.Status
			helpers.DecodeJSON(resp, &current)
			return current.Jobs[pkgsync.JobName+"/"+tenantID].LastSuccess
		}, 10*time.Second, 100*time.Millisecond).ShouldNot(BeNil())
	})

	AfterAll(func() {
		if server != nil {
			Expect(server.StopServer()).To(Succeed())
		}
		if roster != nil {
			roster.Close()
		}
	})

	Describe("Authentication", func() {
		It("serves health checks without the shared secret", func() {
			resp, err := server.GetAnonymous("/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("rejects admin requests without the shared secret", func() {
			resp, err := server.GetAnonymous("/status")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("reports status with the shared secret", func() {
			resp, err := server.Get("/status")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var current service.Status
			helpers.DecodeJSON(resp, &current)
			Expect(current.Status).To(Equal("ok"))
			Expect(current.Tenants).To(Equal(1))
		})
	})

	Describe("Roster sync", func() {
		It("announces a player coming online", func() {
			roster.SetOnline(sourceID, "alice")

			resp, err := server.Post("/sync/"+tenantID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var result pkgsync.Result
			helpers.DecodeJSON(resp, &result)
			Expect(result.RosterSize).To(Equal(1))
			Expect(result.WentOnline).To(Equal(1))
			Expect(result.WentOffline).To(BeZero())

			Eventually(func() []string {
				return server.Sender().Texts(channelID)
			}, 5*time.Second, 50*time.Millisecond).Should(ContainElement(notify.PlayerOnline("Alice")))
		})

		It("ranks the online player on the leaderboard", func() {
			Eventually(func() []string {
				resp, err := server.Get("/tenants/" + tenantID + "/leaderboard")
				if err != nil {
					return nil
				}
				var board service.LeaderboardResult
				helpers.DecodeJSON(resp, &board)
				names := make([]string, 0, len(board.Entries))
				for _, e := range board.Entries {
					names = append(names, e.Name)
				}
				return names
			}, 5*time.Second, 100*time.Millisecond).Should(ContainElement("Alice"))
		})

		It("does not repeat the announcement while the player stays online", func() {
			resp, err := server.Post("/sync/"+tenantID, nil)
			Expect(err).NotTo(HaveOccurred())

			var result pkgsync.Result
			helpers.DecodeJSON(resp, &result)
			Expect(result.WentOnline).To(BeZero())
		})

		It("announces a player going offline", func() {
			roster.SetOnline(sourceID)

			resp, err := server.Post("/sync/"+tenantID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var result pkgsync.Result
			helpers.DecodeJSON(resp, &result)
			Expect(result.WentOffline).To(Equal(1))

			Eventually(func() []string {
				return server.Sender().Texts(channelID)
			}, 5*time.Second, 50*time.Millisecond).Should(ContainElement(notify.PlayerOffline("Alice")))
		})

		It("returns 404 for a tenant that was never configured", func() {
			resp, err := server.Post("/sync/unknown-guild", nil)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Wipes and broadcasts", func() {
		It("records a wipe and announces it", func() {
			resp, err := server.Post("/wipe", v0.WipeRequest{TenantID: tenantID})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var result service.WipeResult
			helpers.DecodeJSON(resp, &result)
			Expect(result.Success).To(BeTrue())
			Expect(result.Channels).To(BeEquivalentTo(1))
			Expect(server.Sender().Texts(channelID)).To(ContainElement(notify.WipeMessage))
		})

		It("rejects a wipe without a tenant", func() {
			resp, err := server.Post("/wipe", v0.WipeRequest{})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("delivers a broadcast to the requested channel", func() {
			resp, err := server.Post("/broadcast", v0.BroadcastRequest{ChannelID: "announcements", Message: "server restart in 5m"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var ack v0.BroadcastResponse
			helpers.DecodeJSON(resp, &ack)
			Expect(ack.Success).To(BeTrue())
			Expect(ack.BroadcastID).NotTo(BeEmpty())
			Expect(server.Sender().Texts("announcements")).To(ConsistOf("server restart in 5m"))
		})
	})
})
