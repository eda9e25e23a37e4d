package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nthora.app/server/internal/http/handler"
	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/model"
	"nthora.app/server/internal/service"
	"nthora.app/server/internal/store"
)

var _ = Describe("InviteHandler", func() {
	var (
		router  *gin.Engine
		svc     *mockInviteService
		authSvc *mockAuthService
	)

	const adminKey = "test-admin-key"

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockInviteService{}
		authSvc = &mockAuthService{}
		h := handler.NewInviteHandler(svc)

		router.GET("/invites/validate", h.Validate)

		authed := router.Group("/api/v1")
		authed.Use(middleware.RequireAuth(authSvc))
		authed.POST("/members/:id/approve", h.Approve)

		admin := router.Group("/admin/invites")
		admin.Use(middleware.RequireAdminKey(adminKey))
		admin.POST("", h.Create)
		admin.GET("", h.List)
	})

	Describe("Validate", func() {
		It("requires a code", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/invites/validate", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports a valid code with remaining uses", func() {
			svc.validateFn = func(_ context.Context, code string) (*model.InviteCode, error) {
				Expect(code).To(Equal("ABCD2345"))
				return &model.InviteCode{
					Code:               code,
					MaxUses:            10,
					CurrentUses:        4,
					FastTrackThreshold: 3,
					Active:             true,
				}, nil
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/invites/validate?code=ABCD2345", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp handler.ValidateInviteResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Valid).To(BeTrue())
			Expect(resp.RemainingUses).To(Equal(6))
			Expect(resp.FastTrackCount).To(Equal(3))
		})

		DescribeTable("maps validation failures to reason codes",
			func(svcErr error, reason string) {
				svc.validateFn = func(_ context.Context, _ string) (*model.InviteCode, error) {
					return nil, svcErr
				}

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/invites/validate?code=ABCD2345", nil)
				router.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(http.StatusOK))
				var resp handler.ValidateInviteResponse
				Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp.Valid).To(BeFalse())
				Expect(resp.Reason).To(Equal(reason))
			},
			Entry("unknown code", service.ErrInviteNotFound, "not_found"),
			Entry("deactivated code", service.ErrInviteInactive, "inactive"),
			Entry("expired code", service.ErrInviteExpired, "expired"),
			Entry("exhausted code", service.ErrInviteExhausted, "exhausted"),
		)
	})

	Describe("Approve", func() {
		authenticatedAs := func(userID int64) {
			authSvc.validateSessionFn = func(_ context.Context, _ int64) (*model.User, error) {
				return &model.User{ID: userID, Email: "member@example.com"}, nil
			}
		}

		request := func(path string) *http.Request {
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString("{}"))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "900"})
			return req
		}

		It("rejects unauthenticated requests", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/members/5/approve", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("passes the authenticated user as the approver", func() {
			authenticatedAs(7)
			var gotApprover int64
			svc.approveFn = func(_ context.Context, pendingID, approverID int64, _ *string) (*model.PendingMember, error) {
				Expect(pendingID).To(Equal(int64(5)))
				gotApprover = approverID
				return &model.PendingMember{ID: pendingID, ApprovalCount: 1}, nil
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, request("/api/v1/members/5/approve"))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotApprover).To(Equal(int64(7)))
		})

		It("returns 403 on self-approval", func() {
			authenticatedAs(42)
			svc.approveFn = func(_ context.Context, _, _ int64, _ *string) (*model.PendingMember, error) {
				return nil, service.ErrSelfApproval
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, request("/api/v1/members/5/approve"))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 404 for an unknown pending member", func() {
			authenticatedAs(7)
			svc.approveFn = func(_ context.Context, _, _ int64, _ *string) (*model.PendingMember, error) {
				return nil, store.ErrNotFound
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, request("/api/v1/members/99/approve"))

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("admin surface", func() {
		It("rejects requests without the admin key", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/invites", nil)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts requests with the admin key", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/invites", nil)
			req.Header.Set("X-Admin-API-Key", adminKey)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("creates invites with the requested limits", func() {
			svc.createFn = func(_ context.Context, params service.CreateInviteParams) (*model.InviteCode, error) {
				Expect(params.MaxUses).To(Equal(25))
				return &model.InviteCode{Code: "WXYZ2345", MaxUses: 25, Active: true}, nil
			}

			body, _ := json.Marshal(map[string]any{"max_uses": 25, "created_by": 7})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/invites", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Admin-API-Key", adminKey)
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
		})
	})
})
