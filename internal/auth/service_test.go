package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	hashes        map[string]string // email -> password hash
	usersByEmail  map[string]*User
	usersByID     map[int64]*User
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	employee := &User{ID: 1, Username: "emma", Email: "employee@example.com", Name: "Emma Employee", Role: RoleEmployee, Department: "Engineering", IsActive: true}
	admin := &User{ID: 2, Username: "adam", Email: "admin@example.com", Name: "Adam Admin", Role: RoleAdmin, Department: "Engineering", IsActive: true}
	super := &User{ID: 3, Username: "sara", Email: "super@example.com", Name: "Sara Super", Role: RoleSuperadmin, Department: "Management", IsActive: true}

	return &mockAuthRepository{
		hashes: map[string]string{
			employee.Email: string(hashedPassword),
			admin.Email:    string(hashedPassword),
			super.Email:    string(hashedPassword),
		},
		usersByEmail: map[string]*User{
			employee.Email: employee,
			admin.Email:    admin,
			super.Email:    super,
		},
		usersByID: map[int64]*User{
			employee.ID: employee,
			admin.ID:    admin,
			super.ID:    super,
		},
	}
}

func (m *mockAuthRepository) GetUserByEmail(email string) (*User, string, error) {
	if m.returnError {
		return nil, "", m.errorToReturn
	}
	if u, exists := m.usersByEmail[email]; exists {
		return u, m.hashes[email], nil
	}
	return nil, "", errors.New("user not found")
}

func (m *mockAuthRepository) GetUserByID(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.usersByID[userID]; exists {
		return u, nil
	}
	return nil, errors.New("user not found")
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service    *Service
		mockRepo   *mockAuthRepository
		tokenGen   *JWTTokenGenerator
		secret     string        = "test-secret-at-least-32-characters!!"
		accessTTL  time.Duration = 15 * time.Minute
		refreshTTL time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator(secret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen, bcrypt.DefaultCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				dto := LoginDTO{
					Email:    "employee@example.com",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
				gomega.Expect(tokens.TokenType).To(gomega.Equal("bearer"))
			})

			ginkgo.It("should bind both tokens to the same subject", func() {
				dto := LoginDTO{
					Email:    "admin@example.com",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				accessSubject, err := tokenGen.ValidateToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				refreshSubject, err := tokenGen.ValidateToken(tokens.RefreshToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				gomega.Expect(accessSubject).To(gomega.Equal(int64(2)))
				gomega.Expect(refreshSubject).To(gomega.Equal(int64(2)))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return the same error for an unknown email", func() {
				dto := LoginDTO{
					Email:    "nonexistent@example.com",
					Password: "any_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return the same error for a wrong password", func() {
				dto := LoginDTO{
					Email:    "employee@example.com",
					Password: "wrong_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should reject an empty email", func() {
				dto := LoginDTO{Email: "", Password: "password"}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should reject an empty password", func() {
				dto := LoginDTO{Email: "employee@example.com", Password: ""}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})
	})

	ginkgo.Describe("RefreshAccessToken", func() {
		ginkgo.It("should mint a new access token and echo the refresh token", func() {
			refreshToken, err := tokenGen.GenerateRefreshToken(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			tokens, err := service.RefreshAccessToken(refreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).To(gomega.Equal(refreshToken))

			subject, err := tokenGen.ValidateToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(subject).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should reject a garbage token", func() {
			_, err := service.RefreshAccessToken("not-a-jwt")

			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject a refresh token whose subject no longer exists", func() {
			refreshToken, err := tokenGen.GenerateRefreshToken(999)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshAccessToken(refreshToken)

			gomega.Expect(err).To(gomega.Equal(ErrUserNotFound))
		})
	})

	ginkgo.Describe("Token expiry", func() {
		ginkgo.It("should reject an access token after its TTL", func() {
			issued := time.Now()
			frozen := issued
			clock := func() time.Time { return frozen }
			expGen := NewJWTTokenGenerator(secret, accessTTL, refreshTTL).WithClock(clock)

			token, err := expGen.GenerateAccessToken(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// still valid just inside the window
			frozen = issued.Add(accessTTL - time.Minute)
			_, err = expGen.ValidateToken(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// expired past the window
			frozen = issued.Add(accessTTL + time.Minute)
			_, err = expGen.ValidateToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
		})

		ginkgo.It("should give refresh tokens a longer life than access tokens", func() {
			issued := time.Now()
			frozen := issued
			clock := func() time.Time { return frozen }
			expGen := NewJWTTokenGenerator(secret, accessTTL, refreshTTL).WithClock(clock)

			access, _ := expGen.GenerateAccessToken(1)
			refresh, _ := expGen.GenerateRefreshToken(1)

			frozen = issued.Add(accessTTL + time.Minute)
			_, err := expGen.ValidateToken(access)
			gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
			_, err = expGen.ValidateToken(refresh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Token validation", func() {
		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("another-secret-also-32-characters!!!", accessTTL, refreshTTL)
			token, err := otherGen.GenerateAccessToken(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = tokenGen.ValidateToken(token)

			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})

		ginkgo.It("should reject a tampered token", func() {
			token, err := tokenGen.GenerateAccessToken(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			tampered := token[:len(token)-2] + "xx"
			_, err = tokenGen.ValidateToken(tampered)

			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUserByID", func() {
		ginkgo.It("should resolve an existing principal", func() {
			u, err := service.GetUserByID(2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Email).To(gomega.Equal("admin@example.com"))
			gomega.Expect(u.Role).To(gomega.Equal(RoleAdmin))
		})

		ginkgo.It("should map a missing record to ErrUserNotFound", func() {
			_, err := service.GetUserByID(42)

			gomega.Expect(err).To(gomega.Equal(ErrUserNotFound))
		})
	})
})

var _ = ginkgo.Describe("Role hierarchy", func() {
	ginkgo.It("should rank employee < admin < superadmin", func() {
		gomega.Expect(RoleEmployee.AtLeast(RoleEmployee)).To(gomega.BeTrue())
		gomega.Expect(RoleEmployee.AtLeast(RoleAdmin)).To(gomega.BeFalse())
		gomega.Expect(RoleEmployee.AtLeast(RoleSuperadmin)).To(gomega.BeFalse())

		gomega.Expect(RoleAdmin.AtLeast(RoleEmployee)).To(gomega.BeTrue())
		gomega.Expect(RoleAdmin.AtLeast(RoleAdmin)).To(gomega.BeTrue())
		gomega.Expect(RoleAdmin.AtLeast(RoleSuperadmin)).To(gomega.BeFalse())

		gomega.Expect(RoleSuperadmin.AtLeast(RoleEmployee)).To(gomega.BeTrue())
		gomega.Expect(RoleSuperadmin.AtLeast(RoleAdmin)).To(gomega.BeTrue())
		gomega.Expect(RoleSuperadmin.AtLeast(RoleSuperadmin)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject unknown roles everywhere", func() {
		gomega.Expect(Role("manager").Valid()).To(gomega.BeFalse())
		gomega.Expect(Role("manager").AtLeast(RoleEmployee)).To(gomega.BeFalse())
	})

	ginkgo.It("should enforce RequireRole on the resolved principal", func() {
		admin := &User{ID: 2, Role: RoleAdmin}

		gomega.Expect(RequireRole(admin, RoleEmployee)).To(gomega.Succeed())
		gomega.Expect(RequireRole(admin, RoleSuperadmin)).To(gomega.Equal(ErrForbidden))
		gomega.Expect(RequireRole(nil, RoleEmployee)).To(gomega.Equal(ErrInvalidToken))
	})
})
