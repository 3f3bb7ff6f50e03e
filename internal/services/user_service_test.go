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

var _ = Describe("UserService", func() {
	var (
		ctx     context.Context
		store   *memory.Store
		users   repositories.UserRepository
		roles   *services.CustomRoleService
		service *services.UserService

		admin entities.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		users = store.Users()
		roles = services.NewCustomRoleService(store.CustomRoles(), users, store.UnitOfWork(), nil, logging.NewNopLogger())
		service = services.NewUserService(users, store.CustomRoles(), store.UnitOfWork(), logging.NewNopLogger())

		admin = entities.Principal{Role: entities.SystemRoleRef(entities.RoleAdmin), OrganizationID: orgID}
	})

	newRole := func(org string) *entities.CustomRoleDefinition {
		role, err := roles.Create(ctx, services.CreateCustomRoleInput{
			Actor:          adminOf(org),
			OrganizationID: org,
			Name:           "Reviewer",
			BasedOnRole:    "viewer",
			Permissions:    map[string]bool{"page.update": true},
			CreatedByID:    "creator",
		})
		Expect(err).NotTo(HaveOccurred())
		return role
	}

	Describe("GetUser", func() {
		It("returns users of the organization", func() {
			user := createUser(ctx, users, orgID, "ana@example.com", entities.SystemRoleRef(entities.RoleEditor))

			found, err := service.GetUser(ctx, orgID, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Email.String()).To(Equal("ana@example.com"))
		})

		It("hides users of another organization", func() {
			user := createUser(ctx, users, otherOrgID, "bia@example.com", entities.SystemRoleRef(entities.RoleEditor))

			_, err := service.GetUser(ctx, orgID, user.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("AssignRole", func() {
		var target *entities.User

		BeforeEach(func() {
			target = createUser(ctx, users, orgID, "target@example.com", entities.SystemRoleRef(entities.RoleViewer))
		})

		It("assigns a system role", func() {
			user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: "editor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.SystemRoleRef(entities.RoleEditor)))

			stored, _ := service.GetUser(ctx, orgID, target.ID)
			Expect(stored.Role.String()).To(Equal("editor"))
		})

		It("assigns a custom role of the same organization", func() {
			role := newRole(orgID)

			user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: role.Ref().String()})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(role.Ref()))

			count, err := users.CountUsersWithRole(ctx, role.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("treats a custom role of another organization as missing", func() {
			role := newRole(otherOrgID)

			_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: role.Ref().String()})
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))

			stored, _ := service.GetUser(ctx, orgID, target.ID)
			Expect(stored.Role).To(Equal(entities.SystemRoleRef(entities.RoleViewer)))
		})

		It("rejects an unknown custom role", func() {
			_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: "custom:404"})
			Expect(err).To(MatchError(domainerrors.ErrCustomRoleNotFound))
		})

		DescribeTable("rejects malformed references",
			func(value string) {
				_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: value})
				Expect(domainerrors.IsValidation(err)).To(BeTrue())
				Expect(err).To(MatchError(domainerrors.ErrInvalidRoleReference))
			},
			Entry("legacy reader", "reader"),
			Entry("empty", ""),
			Entry("bad prefix", "role:1"),
			Entry("non numeric id", "custom:abc"),
			Entry("zero id", "custom:0"),
			Entry("leading zeros", "custom:007"),
			Entry("signed id", "custom:+5"),
			Entry("padded", " editor"),
		)

		It("only lets a superadmin grant superadmin", func() {
			_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: "superadmin"})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			root := entities.Principal{Role: entities.SystemRoleRef(entities.RoleSuperadmin), OrganizationID: orgID}
			user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: root, UserID: target.ID, Role: "superadmin"})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role.IsSuperadmin()).To(BeTrue())
		})

		It("keeps a superadmin out of reach of an admin", func() {
			root := entities.Principal{Role: entities.SystemRoleRef(entities.RoleSuperadmin), OrganizationID: orgID}
			owner := createUser(ctx, users, orgID, "owner@example.com", root.Role)

			_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: owner.ID, Role: "viewer"})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			stored, _ := service.GetUser(ctx, orgID, owner.ID)
			Expect(stored.Role.IsSuperadmin()).To(BeTrue())

			user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: root, UserID: owner.ID, Role: "viewer"})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role.String()).To(Equal("viewer"))
		})

		Context("with a custom role above admin", func() {
			var (
				root entities.Principal
				boss *entities.CustomRoleDefinition
				self *entities.User
			)

			BeforeEach(func() {
				root = entities.Principal{Role: entities.SystemRoleRef(entities.RoleSuperadmin), OrganizationID: orgID}

				var err error
				boss, err = roles.Create(ctx, services.CreateCustomRoleInput{
					Actor:          root,
					OrganizationID: orgID,
					Name:           "Boss",
					BasedOnRole:    "admin",
					Permissions:    map[string]bool{"organization.manage": true},
					CreatedByID:    "root",
				})
				Expect(err).NotTo(HaveOccurred())

				self = createUser(ctx, users, orgID, "admin@example.com", admin.Role)
			})

			It("does not let an admin assign it, not even to itself", func() {
				_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: self.ID, Role: boss.Ref().String()})
				Expect(err).To(MatchError(domainerrors.ErrForbidden))

				_, err = service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: target.ID, Role: boss.Ref().String()})
				Expect(err).To(MatchError(domainerrors.ErrForbidden))

				stored, _ := service.GetUser(ctx, orgID, self.ID)
				Expect(stored.Role).To(Equal(admin.Role))
			})

			It("does not let an admin take it away", func() {
				holder := createUser(ctx, users, orgID, "boss@example.com", boss.Ref())

				_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: holder.ID, Role: "viewer"})
				Expect(err).To(MatchError(domainerrors.ErrForbidden))
			})

			It("lets a superadmin assign it", func() {
				user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: root, UserID: self.ID, Role: boss.Ref().String()})
				Expect(err).NotTo(HaveOccurred())
				Expect(user.Role).To(Equal(boss.Ref()))
			})
		})

		It("lets a holder of a dangling custom role be reassigned", func() {
			orphan := createUser(ctx, users, orgID, "orphan@example.com", entities.CustomRoleRef(404))

			user, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: orphan.ID, Role: "editor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role.String()).To(Equal("editor"))
		})

		It("cannot reach users of another organization", func() {
			stranger := createUser(ctx, users, otherOrgID, "stranger@example.com", entities.SystemRoleRef(entities.RoleViewer))

			_, err := service.AssignRole(ctx, services.AssignRoleInput{Actor: admin, UserID: stranger.ID, Role: "editor"})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("ListUsers", func() {
		It("filters by organization and role reference", func() {
			role := newRole(orgID)
			createUser(ctx, users, orgID, "a@example.com", entities.SystemRoleRef(entities.RoleEditor))
			createUser(ctx, users, orgID, "b@example.com", role.Ref())
			createUser(ctx, users, otherOrgID, "c@example.com", entities.SystemRoleRef(entities.RoleEditor))

			all, err := service.ListUsers(ctx, repositories.UserFilters{OrganizationID: orgID})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			ref := role.Ref()
			custom, err := service.ListUsers(ctx, repositories.UserFilters{OrganizationID: orgID, Role: &ref})
			Expect(err).NotTo(HaveOccurred())
			Expect(custom).To(HaveLen(1))
			Expect(custom[0].Email.String()).To(Equal("b@example.com"))
		})
	})

	Describe("DeleteUser", func() {
		It("releases the custom role held by the user", func() {
			role := newRole(orgID)
			user := createUser(ctx, users, orgID, "leaving@example.com", role.Ref())

			Expect(roles.Delete(ctx, orgID, role.ID)).To(MatchError(domainerrors.ErrCustomRoleInUse))

			Expect(service.DeleteUser(ctx, orgID, user.ID)).To(Succeed())
			_, err := service.GetUser(ctx, orgID, user.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))

			Expect(roles.Delete(ctx, orgID, role.ID)).To(Succeed())
		})

		It("does not delete users of another organization", func() {
			stranger := createUser(ctx, users, otherOrgID, "stranger@example.com", entities.SystemRoleRef(entities.RoleViewer))

			Expect(service.DeleteUser(ctx, orgID, stranger.ID)).To(MatchError(domainerrors.ErrUserNotFound))
			_, err := service.GetUser(ctx, otherOrgID, stranger.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
