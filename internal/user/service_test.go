package user

import (
	"log/slog"
	"testing"

	"github.com/frahmantamala/bragboard/internal"
	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users  map[int64]*User
	keys   map[string]bool // key -> is_used
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*User),
		keys:   make(map[string]bool),
		nextID: 1,
	}
}

func (m *mockUserRepository) addUser(u *User) *User {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepository) GetByID(userID int64) (*User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *mockUserRepository) GetByEmail(email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepository) GetByUsername(username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepository) Create(u *User) error {
	m.addUser(u)
	return nil
}

func (m *mockUserRepository) CreateAdminWithKey(u *User, key string) error {
	used, exists := m.keys[key]
	if !exists || used {
		return ErrKeyNotFound
	}
	m.keys[key] = true
	m.addUser(u)
	return nil
}

func (m *mockUserRepository) ListByRole(role auth.Role) ([]*User, error) {
	var result []*User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepository) ListByRoleAndDepartment(role auth.Role, department string) ([]*User, error) {
	var result []*User
	for _, u := range m.users {
		if u.Role == role && u.Department == department {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserRepository) DeleteByIDAndRole(userID int64, role auth.Role) error {
	u, ok := m.users[userID]
	if !ok || u.Role != role {
		return ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *mockUserRepository) SetActive(userID int64, role auth.Role, active bool) error {
	u, ok := m.users[userID]
	if !ok || u.Role != role {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (m *mockUserRepository) UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if dto.JoiningDate != nil {
		u.JoiningDate = dto.JoiningDate
	}
	if dto.CurrentProject != nil {
		u.CurrentProject = dto.CurrentProject
	}
	if dto.GroupMembers != nil {
		u.GroupMembers = dto.GroupMembers
	}
	if dto.Skills != nil {
		u.Skills = dto.Skills
	}
	if dto.Experience != nil {
		u.Experience = dto.Experience
	}
	return u, nil
}

func (m *mockUserRepository) CreateSecurityKey(key string) (*SecurityKey, error) {
	m.keys[key] = false
	return &SecurityKey{ID: int64(len(m.keys)), Key: key}, nil
}

func (m *mockUserRepository) ListSecurityKeys() ([]*SecurityKey, error) {
	var result []*SecurityKey
	var id int64
	for key, used := range m.keys {
		id++
		result = append(result, &SecurityKey{ID: id, Key: key, IsUsed: used})
	}
	return result, nil
}

func (m *mockUserRepository) DeleteSecurityKey(keyID int64) error {
	return nil
}

// Plain passthrough hasher keeps the registration tests fast; bcrypt
// behavior is covered by the auth suite.
type mockHasher struct{}

func (mockHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository

		employeeCaller *auth.User
		adminCaller    *auth.User
		superCaller    *auth.User
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = NewService(mockRepo, mockHasher{}, slog.Default())

		employeeCaller = &auth.User{ID: 10, Role: auth.RoleEmployee, Department: "Engineering"}
		adminCaller = &auth.User{ID: 11, Role: auth.RoleAdmin, Department: "Engineering"}
		superCaller = &auth.User{ID: 12, Role: auth.RoleSuperadmin, Department: "Management"}
	})

	ginkgo.Describe("Register", func() {
		ginkgo.Context("employee signup", func() {
			ginkgo.It("should create an active employee without a security key", func() {
				dto := RegisterDTO{
					Username:   "newbie",
					Name:       "New Employee",
					Email:      "newbie@example.com",
					Password:   "secret123",
					Role:       "employee",
					Department: "Engineering",
				}

				u, err := service.Register(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(u.ID).ToNot(gomega.BeZero())
				gomega.Expect(u.Role).To(gomega.Equal(auth.RoleEmployee))
				gomega.Expect(u.IsActive).To(gomega.BeTrue())
				gomega.Expect(u.PasswordHash).To(gomega.Equal("hashed:secret123"))
			})

			ginkgo.It("should reject a duplicate email", func() {
				mockRepo.addUser(&User{Username: "taken", Email: "dup@example.com", Role: auth.RoleEmployee})

				dto := RegisterDTO{
					Username:   "other",
					Name:       "Other",
					Email:      "dup@example.com",
					Password:   "secret123",
					Role:       "employee",
					Department: "Engineering",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateEmail))
			})

			ginkgo.It("should reject a duplicate username", func() {
				mockRepo.addUser(&User{Username: "taken", Email: "first@example.com", Role: auth.RoleEmployee})

				dto := RegisterDTO{
					Username:   "taken",
					Name:       "Second",
					Email:      "second@example.com",
					Password:   "secret123",
					Role:       "employee",
					Department: "Engineering",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUsername))
			})
		})

		ginkgo.Context("admin signup", func() {
			ginkgo.It("should require a security key", func() {
				dto := RegisterDTO{
					Username:   "wannabe",
					Name:       "Wannabe Admin",
					Email:      "wannabe@example.com",
					Password:   "secret123",
					Role:       "admin",
					Department: "Engineering",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrMissingSecurityKey))
			})

			ginkgo.It("should reject an unknown security key", func() {
				dto := RegisterDTO{
					Username:    "wannabe",
					Name:        "Wannabe Admin",
					Email:       "wannabe@example.com",
					Password:    "secret123",
					Role:        "admin",
					Department:  "Engineering",
					SecurityKey: "no-such-key",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidSecurityKey))
			})

			ginkgo.It("should consume a valid key exactly once", func() {
				mockRepo.keys["valid-key"] = false

				dto := RegisterDTO{
					Username:    "realadmin",
					Name:        "Real Admin",
					Email:       "realadmin@example.com",
					Password:    "secret123",
					Role:        "admin",
					Department:  "Engineering",
					SecurityKey: "valid-key",
				}

				u, err := service.Register(dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(u.Role).To(gomega.Equal(auth.RoleAdmin))

				// second registration with the same key fails
				dto.Username = "secondadmin"
				dto.Email = "secondadmin@example.com"
				_, err = service.Register(dto)
				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidSecurityKey))
			})
		})

		ginkgo.Context("role validation", func() {
			ginkgo.It("should reject superadmin self-registration", func() {
				dto := RegisterDTO{
					Username:   "sneaky",
					Name:       "Sneaky",
					Email:      "sneaky@example.com",
					Password:   "secret123",
					Role:       "superadmin",
					Department: "Management",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
			})

			ginkgo.It("should reject an unknown role", func() {
				dto := RegisterDTO{
					Username:   "odd",
					Name:       "Odd Role",
					Email:      "odd@example.com",
					Password:   "secret123",
					Role:       "manager",
					Department: "Engineering",
				}

				_, err := service.Register(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("ListEmployees", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.addUser(&User{Username: "e1", Email: "e1@example.com", Role: auth.RoleEmployee, Department: "Engineering"})
			mockRepo.addUser(&User{Username: "e2", Email: "e2@example.com", Role: auth.RoleEmployee, Department: "Sales"})
			mockRepo.addUser(&User{Username: "a1", Email: "a1@example.com", Role: auth.RoleAdmin, Department: "Engineering"})
		})

		ginkgo.It("should show a superadmin every employee", func() {
			employees, err := service.ListEmployees(superCaller)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(employees).To(gomega.HaveLen(2))
		})

		ginkgo.It("should scope an admin to their own department", func() {
			employees, err := service.ListEmployees(adminCaller)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(employees).To(gomega.HaveLen(1))
			gomega.Expect(employees[0].Department).To(gomega.Equal("Engineering"))
		})

		ginkgo.It("should forbid employees", func() {
			_, err := service.ListEmployees(employeeCaller)

			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("Admin management", func() {
		var adminID int64

		ginkgo.BeforeEach(func() {
			admin := mockRepo.addUser(&User{Username: "target", Email: "target@example.com", Role: auth.RoleAdmin, Department: "Sales"})
			adminID = admin.ID
		})

		ginkgo.It("should let a superadmin list admins", func() {
			admins, err := service.ListAdmins(superCaller)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(admins).To(gomega.HaveLen(1))
		})

		ginkgo.It("should forbid admins from listing admins", func() {
			_, err := service.ListAdmins(adminCaller)

			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should let a superadmin delete an admin", func() {
			err := service.DeleteAdmin(superCaller, adminID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = mockRepo.GetByID(adminID)
			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})

		ginkgo.It("should forbid admins from deleting admins", func() {
			err := service.DeleteAdmin(adminCaller, adminID)

			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should 404 when the target is not an admin", func() {
			employee := mockRepo.addUser(&User{Username: "emp", Email: "emp@example.com", Role: auth.RoleEmployee})

			err := service.DeleteAdmin(superCaller, employee.ID)

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("Employee management", func() {
		var employeeID int64

		ginkgo.BeforeEach(func() {
			employee := mockRepo.addUser(&User{Username: "emp", Email: "emp@example.com", Role: auth.RoleEmployee, Department: "Sales", IsActive: true})
			employeeID = employee.ID
		})

		ginkgo.It("should let an admin delete an employee outside their department", func() {
			err := service.DeleteEmployee(adminCaller, employeeID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should forbid employees from deleting", func() {
			err := service.DeleteEmployee(employeeCaller, employeeID)

			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should suspend and reinstate an employee", func() {
			err := service.SuspendEmployee(adminCaller, employeeID, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			u, _ := mockRepo.GetByID(employeeID)
			gomega.Expect(u.IsActive).To(gomega.BeFalse())

			err = service.SuspendEmployee(adminCaller, employeeID, false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			u, _ = mockRepo.GetByID(employeeID)
			gomega.Expect(u.IsActive).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("UpdateProfile", func() {
		ginkgo.It("should apply only the supplied fields", func() {
			u := mockRepo.addUser(&User{Username: "me", Email: "me@example.com", Role: auth.RoleEmployee})
			project := "Apollo"

			updated, err := service.UpdateProfile(u.ID, UpdateProfileDTO{CurrentProject: &project})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.CurrentProject).ToNot(gomega.BeNil())
			gomega.Expect(*updated.CurrentProject).To(gomega.Equal("Apollo"))
			gomega.Expect(updated.JoiningDate).To(gomega.BeNil())
		})

		ginkgo.It("should surface a vanished record as not found", func() {
			_, err := service.UpdateProfile(404, UpdateProfileDTO{})

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("Security keys", func() {
		ginkgo.It("should mint keys for admins", func() {
			key, err := service.CreateSecurityKey(adminCaller)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(key.Key).ToNot(gomega.BeEmpty())
			gomega.Expect(key.IsUsed).To(gomega.BeFalse())
		})

		ginkgo.It("should forbid employees from minting keys", func() {
			_, err := service.CreateSecurityKey(employeeCaller)

			gomega.Expect(err).To(gomega.Equal(internal.ErrForbidden))
		})

		ginkgo.It("should list keys for admins", func() {
			_, err := service.CreateSecurityKey(adminCaller)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			keys, err := service.ListSecurityKeys(adminCaller)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(keys).To(gomega.HaveLen(1))
		})
	})
})
