package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-cms/internal/domain/authz"
	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/cache"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/logging"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/persistence/memory"
	"github.com/rafabene/avantpro-cms/internal/services"
)

var _ = Describe("PermissionService", func() {
	var (
		ctx       context.Context
		store     *memory.Store
		users     repositories.UserRepository
		roleCache *cache.CustomRoleCache
		roles     *services.CustomRoleService
		service   *services.PermissionService

		junior *entities.CustomRoleDefinition
	)

	pagePublish := entities.NewPermission(entities.ResourcePage, entities.ActionPublish)
	blogPublish := entities.NewPermission(entities.ResourceBlog, entities.ActionPublish)
	pageCreate := entities.NewPermission(entities.ResourcePage, entities.ActionCreate)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		users = store.Users()
		log := logging.NewNopLogger()

		roleCache = cache.NewCustomRoleCache(store.CustomRoles(), cache.Config{Size: 16, TTL: time.Minute}, nil, log, nil)
		roles = services.NewCustomRoleService(store.CustomRoles(), users, store.UnitOfWork(), roleCache, log)
		service = services.NewPermissionService(users, authz.NewResolver(roleCache), log)

		var err error
		junior, err = roles.Create(ctx, services.CreateCustomRoleInput{
			Actor:          adminOf(orgID),
			OrganizationID: orgID,
			Name:           "Junior Editor",
			BasedOnRole:    "editor",
			Permissions:    map[string]bool{"blog.publish": false, "page.publish": true},
			CreatedByID:    "creator",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("PrincipalFor", func() {
		It("reads the current role from the store", func() {
			user := createUser(ctx, users, orgID, "junior@example.com", junior.Ref())

			principal, err := service.PrincipalFor(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.Role).To(Equal(junior.Ref()))
			Expect(principal.OrganizationID).To(Equal(orgID))
		})

		It("fails for unknown users", func() {
			_, err := service.PrincipalFor(ctx, "missing")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("LoadSession", func() {
		It("resolves the Junior Editor", func() {
			user := createUser(ctx, users, orgID, "junior@example.com", junior.Ref())

			session, err := service.LoadSession(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Loaded()).To(BeTrue())
			Expect(session.HasPermission(entities.ResourcePage, entities.ActionPublish)).To(Equal(authz.DecisionAllow))
			Expect(session.HasPermission(entities.ResourceBlog, entities.ActionPublish)).To(Equal(authz.DecisionDeny))
			Expect(session.HasAllPermissions(pageCreate, pagePublish)).To(Equal(authz.DecisionAllow))
		})

		It("grants everything to a superadmin", func() {
			user := createUser(ctx, users, orgID, "root@example.com", entities.SystemRoleRef(entities.RoleSuperadmin))

			session, err := service.LoadSession(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.HasPermission(entities.ResourceOrganization, entities.ActionManage)).To(Equal(authz.DecisionAllow))
		})
	})

	Describe("SessionFor", func() {
		It("denies everything when the custom role is gone", func() {
			principal := entities.Principal{Role: entities.CustomRoleRef(999), OrganizationID: orgID}

			session, err := service.SessionFor(ctx, principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Loaded()).To(BeTrue())
			Expect(session.HasPermission(entities.ResourcePage, entities.ActionRead)).To(Equal(authz.DecisionDeny))

			effective, _ := session.Effective()
			Expect(effective).To(BeEmpty())
		})

		It("denies everything for a custom role of another organization", func() {
			principal := entities.Principal{Role: junior.Ref(), OrganizationID: otherOrgID}

			session, err := service.SessionFor(ctx, principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.HasPermission(entities.ResourcePage, entities.ActionCreate)).To(Equal(authz.DecisionDeny))
		})

		It("propagates cancellation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := service.SessionFor(cancelled, entities.Principal{Role: junior.Ref(), OrganizationID: orgID})
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Check", func() {
		var principal entities.Principal

		BeforeEach(func() {
			principal = entities.Principal{Role: junior.Ref(), OrganizationID: orgID}
		})

		It("applies overrides over the base role", func() {
			allowed, err := service.Check(ctx, principal, entities.ResourcePage, entities.ActionPublish)
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())

			allowed, err = service.Check(ctx, principal, entities.ResourceBlog, entities.ActionPublish)
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("fails closed for a missing role", func() {
			allowed, err := service.Check(ctx, entities.Principal{Role: entities.CustomRoleRef(999), OrganizationID: orgID}, entities.ResourcePage, entities.ActionRead)
			Expect(allowed).To(BeFalse())
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})

		It("combines pairs with CheckAny and CheckAll", func() {
			anyAllowed, err := service.CheckAny(ctx, principal, blogPublish, pagePublish)
			Expect(err).NotTo(HaveOccurred())
			Expect(anyAllowed).To(BeTrue())

			allAllowed, err := service.CheckAll(ctx, principal, blogPublish, pagePublish)
			Expect(err).NotTo(HaveOccurred())
			Expect(allAllowed).To(BeFalse())

			none, err := service.CheckAny(ctx, principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(none).To(BeFalse())
		})

		It("sees role updates right after they commit", func() {
			allowed, _ := service.Check(ctx, principal, entities.ResourceBlog, entities.ActionPublish)
			Expect(allowed).To(BeFalse())
			Expect(roleCache.Len()).To(Equal(1))

			overrides := map[string]bool{"blog.publish": true}
			_, err := roles.Update(ctx, orgID, junior.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Permissions: &overrides})
			Expect(err).NotTo(HaveOccurred())
			Expect(roleCache.Len()).To(Equal(0))

			allowed, err = service.Check(ctx, principal, entities.ResourceBlog, entities.ActionPublish)
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())

			allowed, _ = service.Check(ctx, principal, entities.ResourcePage, entities.ActionPublish)
			Expect(allowed).To(BeFalse())
		})

		It("denies after the role is deleted", func() {
			allowed, _ := service.Check(ctx, principal, entities.ResourcePage, entities.ActionCreate)
			Expect(allowed).To(BeTrue())

			Expect(roles.Delete(ctx, orgID, junior.ID)).To(Succeed())

			allowed, err := service.Check(ctx, principal, entities.ResourcePage, entities.ActionCreate)
			Expect(allowed).To(BeFalse())
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})
	})
})
