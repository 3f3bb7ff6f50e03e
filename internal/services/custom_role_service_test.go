package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/avantpro-cms/internal/domain/entities"
	domainerrors "github.com/rafabene/avantpro-cms/internal/domain/errors"
	"github.com/rafabene/avantpro-cms/internal/domain/repositories"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/logging"
	"github.com/rafabene/avantpro-cms/internal/infrastructure/persistence/memory"
	"github.com/rafabene/avantpro-cms/internal/services"
)

var _ = Describe("CustomRoleService", func() {
	var (
		ctx     context.Context
		store   *memory.Store
		users   repositories.UserRepository
		cache   *recordingCache
		service *services.CustomRoleService
	)

	juniorEditor := func() services.CreateCustomRoleInput {
		return services.CreateCustomRoleInput{
			Actor:          adminOf(orgID),
			OrganizationID: orgID,
			Name:           "Junior Editor",
			BasedOnRole:    "editor",
			Permissions:    map[string]bool{"blog.publish": false, "page.publish": true},
			CreatedByID:    "creator",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		users = store.Users()
		cache = &recordingCache{}
		service = services.NewCustomRoleService(store.CustomRoles(), users, store.UnitOfWork(), cache, logging.NewNopLogger())
	})

	Describe("Create", func() {
		It("stores overrides exactly as given", func() {
			role, err := service.Create(ctx, juniorEditor())
			Expect(err).NotTo(HaveOccurred())
			Expect(role.ID).To(BeNumerically(">", 0))
			Expect(role.BasedOnRole).To(Equal(entities.RoleEditor))
			Expect(map[string]bool(role.Permissions)).To(Equal(map[string]bool{"blog.publish": false, "page.publish": true}))

			stored, err := service.Get(ctx, orgID, role.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Permissions).To(HaveLen(2))
			Expect(stored.CreatedByID).To(Equal("creator"))
		})

		It("trims the name and drops a blank description", func() {
			input := juniorEditor()
			input.Name = "  Junior Editor  "
			blank := "   "
			input.Description = &blank

			role, err := service.Create(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(role.Name).To(Equal("Junior Editor"))
			Expect(role.Description).To(BeNil())
		})

		DescribeTable("rejects invalid input",
			func(mutate func(*services.CreateCustomRoleInput), reason error) {
				input := juniorEditor()
				mutate(&input)

				_, err := service.Create(ctx, input)
				Expect(domainerrors.IsValidation(err)).To(BeTrue())
				Expect(err).To(MatchError(reason))

				roles, _ := service.List(ctx, orgID)
				Expect(roles).To(BeEmpty())
			},
			Entry("empty name", func(in *services.CreateCustomRoleInput) { in.Name = " " }, domainerrors.ErrRoleNameRequired),
			Entry("unknown base", func(in *services.CreateCustomRoleInput) { in.BasedOnRole = "reader" }, domainerrors.ErrInvalidSystemRole),
			Entry("superadmin base", func(in *services.CreateCustomRoleInput) { in.BasedOnRole = "superadmin" }, domainerrors.ErrSuperadminBase),
			Entry("undeclared key", func(in *services.CreateCustomRoleInput) { in.Permissions["media.publish"] = true }, domainerrors.ErrInvalidPermissionKey),
			Entry("malformed key", func(in *services.CreateCustomRoleInput) { in.Permissions["page"] = true }, domainerrors.ErrInvalidPermissionKey),
		)

		It("keeps a single default per organization", func() {
			first := juniorEditor()
			first.IsDefault = true
			a, err := service.Create(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			second := juniorEditor()
			second.Name = "Reviewer"
			second.IsDefault = true
			b, err := service.Create(ctx, second)
			Expect(err).NotTo(HaveOccurred())

			other := juniorEditor()
			other.OrganizationID = otherOrgID
			other.IsDefault = true
			c, err := service.Create(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			reloadedA, _ := service.Get(ctx, orgID, a.ID)
			reloadedB, _ := service.Get(ctx, orgID, b.ID)
			reloadedC, _ := service.Get(ctx, otherOrgID, c.ID)
			Expect(reloadedA.IsDefault).To(BeFalse())
			Expect(reloadedB.IsDefault).To(BeTrue())
			Expect(reloadedC.IsDefault).To(BeTrue())
		})

		It("invalidates the role that loses the default flag", func() {
			first := juniorEditor()
			first.IsDefault = true
			a, err := service.Create(ctx, first)
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.Invalidated()).To(BeEmpty())

			second := juniorEditor()
			second.Name = "Reviewer"
			second.IsDefault = true
			_, err = service.Create(ctx, second)
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.Invalidated()).To(ConsistOf(a.ID))
		})

		It("refuses overrides the actor does not hold", func() {
			boss := juniorEditor()
			boss.Name = "Boss"
			boss.BasedOnRole = "admin"
			boss.Permissions = map[string]bool{"organization.manage": true}

			_, err := service.Create(ctx, boss)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
			roles, _ := service.List(ctx, orgID)
			Expect(roles).To(BeEmpty())

			boss.Actor = entities.Principal{Role: entities.SystemRoleRef(entities.RoleSuperadmin), OrganizationID: orgID}
			role, err := service.Create(ctx, boss)
			Expect(err).NotTo(HaveOccurred())
			Expect(role.Resolve("organization.manage")).To(BeTrue())
		})

		It("refuses an editor building a role beyond editor", func() {
			input := juniorEditor()
			input.Actor = entities.Principal{Role: entities.SystemRoleRef(entities.RoleEditor), OrganizationID: orgID}

			_, err := service.Create(ctx, input)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})

		It("refuses an actor whose custom role is gone", func() {
			input := juniorEditor()
			input.Actor = entities.Principal{Role: entities.CustomRoleRef(404), OrganizationID: orgID}

			_, err := service.Create(ctx, input)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("Update", func() {
		var role *entities.CustomRoleDefinition

		BeforeEach(func() {
			var err error
			role, err = service.Create(ctx, juniorEditor())
			Expect(err).NotTo(HaveOccurred())
		})

		It("replaces the whole override map", func() {
			replacement := map[string]bool{"page.delete": true}

			updated, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Permissions: &replacement})
			Expect(err).NotTo(HaveOccurred())
			Expect(map[string]bool(updated.Permissions)).To(Equal(replacement))

			stored, _ := service.Get(ctx, orgID, role.ID)
			_, present := stored.Permissions.Lookup("page.publish")
			Expect(present).To(BeFalse())
			Expect(stored.Resolve("page.publish")).To(BeFalse())
			Expect(stored.Resolve("blog.publish")).To(BeTrue())
		})

		It("keeps fields that were not sent", func() {
			name := "Senior Editor"
			updated, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Senior Editor"))
			Expect(updated.Permissions).To(HaveLen(2))
			Expect(updated.BasedOnRole).To(Equal(entities.RoleEditor))
		})

		It("invalidates the cached role after commit", func() {
			name := "Senior Editor"
			_, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.Invalidated()).To(ConsistOf(role.ID))
		})

		It("does not fail when invalidation cannot be propagated", func() {
			cache.err = errBroker
			name := "Senior Editor"
			_, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Name: &name})
			Expect(err).NotTo(HaveOccurred())
		})

		It("validates like create and leaves the stored role untouched", func() {
			base := "superadmin"
			_, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), BasedOnRole: &base})
			Expect(err).To(MatchError(domainerrors.ErrSuperadminBase))

			stored, _ := service.Get(ctx, orgID, role.ID)
			Expect(stored.BasedOnRole).To(Equal(entities.RoleEditor))
			Expect(cache.Invalidated()).To(BeEmpty())
		})

		It("refuses to grant what the actor does not hold", func() {
			overrides := map[string]bool{"organization.manage": true}
			_, err := service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Permissions: &overrides})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			stored, _ := service.Get(ctx, orgID, role.ID)
			Expect(stored.Resolve("organization.manage")).To(BeFalse())
			Expect(cache.Invalidated()).To(BeEmpty())
		})

		It("invalidates the previous default when another role takes over", func() {
			other := juniorEditor()
			other.Name = "Reviewer"
			other.IsDefault = true
			previous, err := service.Create(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			isDefault := true
			_, err = service.Update(ctx, orgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), IsDefault: &isDefault})
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.Invalidated()).To(ConsistOf(previous.ID, role.ID))

			reloaded, _ := service.Get(ctx, orgID, previous.ID)
			Expect(reloaded.IsDefault).To(BeFalse())
		})

		It("treats roles of another organization as missing", func() {
			name := "Hijacked"
			_, err := service.Update(ctx, otherOrgID, role.ID, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Name: &name})
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})

		It("returns not found for unknown ids", func() {
			name := "Ghost"
			_, err := service.Update(ctx, orgID, 999, services.UpdateCustomRoleInput{Actor: adminOf(orgID), Name: &name})
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})
	})

	Describe("Delete", func() {
		var role *entities.CustomRoleDefinition

		BeforeEach(func() {
			var err error
			role, err = service.Create(ctx, juniorEditor())
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses while a user holds the role and succeeds after unassignment", func() {
			user := createUser(ctx, users, orgID, "junior@example.com", role.Ref())

			err := service.Delete(ctx, orgID, role.ID)
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleInUse))
			Expect(cache.Invalidated()).To(BeEmpty())

			user.AssignRole(entities.SystemRoleRef(entities.RoleViewer))
			Expect(users.UpdateRole(ctx, user)).To(Succeed())

			Expect(service.Delete(ctx, orgID, role.ID)).To(Succeed())
			Expect(cache.Invalidated()).To(ConsistOf(role.ID))

			_, err = service.Get(ctx, orgID, role.ID)
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})

		It("ignores soft-deleted users", func() {
			user := createUser(ctx, users, orgID, "gone@example.com", role.Ref())
			Expect(users.SoftDelete(ctx, user.ID)).To(Succeed())

			Expect(service.Delete(ctx, orgID, role.ID)).To(Succeed())
		})

		It("returns not found for missing or foreign roles", func() {
			Expect(service.Delete(ctx, orgID, 999)).To(MatchError(domainerrors.ErrCustomRoleNotFound))
			Expect(service.Delete(ctx, otherOrgID, role.ID)).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})
	})

	Describe("List", func() {
		It("returns only roles of the organization", func() {
			_, err := service.Create(ctx, juniorEditor())
			Expect(err).NotTo(HaveOccurred())

			other := juniorEditor()
			other.OrganizationID = otherOrgID
			_, err = service.Create(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			roles, err := service.List(ctx, orgID)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].OrganizationID).To(Equal(orgID))
		})
	})
})
