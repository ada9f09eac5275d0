package postgres

import (
	"testing"
	"time"

	shoutoutDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/shoutout"
	userDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/user"

	"github.com/frahmantamala/bragboard/internal/shoutout"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestShoutOutRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ShoutOutRepository Suite")
}

var _ = Describe("ShoutOutRepository", func() {
	var (
		db   *gorm.DB
		repo shoutout.Repository
	)

	createUser := func(name string) int64 {
		u := userDatamodel.User{
			Username:     name,
			Email:        name + "@example.com",
			Name:         name,
			PasswordHash: "irrelevant",
			Role:         "employee",
			Department:   "Engineering",
			IsActive:     true,
		}
		Expect(db.Create(&u).Error).NotTo(HaveOccurred())
		return u.ID
	}

	createPost := func(authorID int64, message string, at time.Time) int64 {
		s := &shoutout.ShoutOut{AuthorID: authorID, Message: message, CreatedAt: at}
		Expect(repo.Create(s)).To(Succeed())
		return s.ID
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&shoutoutDatamodel.ShoutOut{},
			&shoutoutDatamodel.ShoutOutTag{},
			&shoutoutDatamodel.ShoutOutReaction{},
			&shoutoutDatamodel.ShoutOutComment{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewShoutOutRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByID", func() {
		It("should persist a post and resolve the author name", func() {
			authorID := createUser("emma")
			postID := createPost(authorID, "Great work!", time.Now())

			got, err := repo.GetByID(postID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Message).To(Equal("Great work!"))
			Expect(got.AuthorName).To(Equal("emma"))
		})

		It("should map a missing post to ErrShoutOutNotFound", func() {
			_, err := repo.GetByID(42)
			Expect(err).To(Equal(shoutout.ErrShoutOutNotFound))
		})
	})

	Describe("ListRecent", func() {
		It("should return newest posts first with the limit applied", func() {
			authorID := createUser("emma")
			base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
			createPost(authorID, "oldest", base)
			createPost(authorID, "middle", base.Add(time.Hour))
			createPost(authorID, "newest", base.Add(2*time.Hour))

			posts, err := repo.ListRecent(2)

			Expect(err).NotTo(HaveOccurred())
			Expect(posts).To(HaveLen(2))
			Expect(posts[0].Message).To(Equal("newest"))
			Expect(posts[1].Message).To(Equal("middle"))
		})
	})

	Describe("Batched feed lookups", func() {
		var (
			authorID int64
			bobID    int64
			carolID  int64
			postID   int64
			emptyID  int64
		)

		BeforeEach(func() {
			authorID = createUser("emma")
			bobID = createUser("bob")
			carolID = createUser("carol")

			postID = createPost(authorID, "Great work!", time.Now())
			emptyID = createPost(authorID, "quiet post", time.Now())

			Expect(repo.CreateTags(postID, []int64{bobID, carolID})).To(Succeed())
			Expect(repo.AddReaction(postID, bobID, "🎉")).To(Succeed())
			Expect(repo.AddReaction(postID, carolID, "🎉")).To(Succeed())
			Expect(repo.AddReaction(postID, carolID, "👏")).To(Succeed())

			for _, text := range []string{"first", "second", "third"} {
				_, err := repo.AddComment(postID, bobID, text)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should resolve tags with user names in one batch", func() {
			tags, err := repo.TagsForShoutOuts([]int64{postID, emptyID})

			Expect(err).NotTo(HaveOccurred())
			Expect(tags[postID]).To(HaveLen(2))
			Expect(tags[postID][0].Name).To(Equal("bob"))
			Expect(tags[postID][1].Name).To(Equal("carol"))
			Expect(tags[emptyID]).To(BeEmpty())
		})

		It("should count reactions grouped by emoji", func() {
			counts, err := repo.ReactionCountsForShoutOuts([]int64{postID, emptyID})

			Expect(err).NotTo(HaveOccurred())
			Expect(counts[postID]["🎉"]).To(Equal(int64(2)))
			Expect(counts[postID]["👏"]).To(Equal(int64(1)))
			Expect(counts).NotTo(HaveKey(emptyID))
		})

		It("should count comments per post", func() {
			counts, err := repo.CommentCountsForShoutOuts([]int64{postID, emptyID})

			Expect(err).NotTo(HaveOccurred())
			Expect(counts[postID]).To(Equal(int64(3)))
			Expect(counts).NotTo(HaveKey(emptyID))
		})

		It("should accumulate duplicate reactions from the same user", func() {
			Expect(repo.AddReaction(postID, bobID, "🎉")).To(Succeed())

			counts, err := repo.ReactionCountsForShoutOuts([]int64{postID})

			Expect(err).NotTo(HaveOccurred())
			Expect(counts[postID]["🎉"]).To(Equal(int64(3)))
		})
	})

	Describe("Comments", func() {
		It("should list comments oldest-first with user names", func() {
			authorID := createUser("emma")
			bobID := createUser("bob")
			postID := createPost(authorID, "post", time.Now())

			for _, text := range []string{"first", "second"} {
				_, err := repo.AddComment(postID, bobID, text)
				Expect(err).NotTo(HaveOccurred())
			}

			comments, err := repo.ListComments(postID)

			Expect(err).NotTo(HaveOccurred())
			Expect(comments).To(HaveLen(2))
			Expect(comments[0].Content).To(Equal("first"))
			Expect(comments[0].UserName).To(Equal("bob"))
			Expect(comments[1].Content).To(Equal("second"))
		})
	})

	Describe("Metrics queries", func() {
		var (
			emmaID int64
			bobID  int64
		)

		BeforeEach(func() {
			emmaID = createUser("emma")
			bobID = createUser("bob")

			base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
			given := createPost(emmaID, "from emma", base)
			Expect(repo.CreateTags(given, []int64{bobID})).To(Succeed())

			received1 := createPost(bobID, "to emma", base.Add(time.Hour))
			Expect(repo.CreateTags(received1, []int64{emmaID})).To(Succeed())
			received2 := createPost(bobID, "to emma again", base.Add(2*time.Hour))
			Expect(repo.CreateTags(received2, []int64{emmaID})).To(Succeed())

			_, err := repo.AddComment(received1, emmaID, "thanks!")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should count given, received and comments", func() {
			given, err := repo.CountAuthoredBy(emmaID)
			Expect(err).NotTo(HaveOccurred())
			Expect(given).To(Equal(int64(1)))

			received, err := repo.CountTagged(emmaID)
			Expect(err).NotTo(HaveOccurred())
			Expect(received).To(Equal(int64(2)))

			comments, err := repo.CountCommentsBy(emmaID)
			Expect(err).NotTo(HaveOccurred())
			Expect(comments).To(Equal(int64(1)))
		})

		It("should return recent events newest-first per kind", func() {
			received, err := repo.RecentReceived(emmaID, 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(received).To(HaveLen(2))
			Expect(received[0].Message).To(Equal("to emma again"))
			Expect(received[1].Message).To(Equal("to emma"))
			Expect(received[0].Kind).To(Equal(shoutout.ActivityReceived))
		})

		It("should apply the per-kind limit", func() {
			received, err := repo.RecentReceived(emmaID, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(received).To(HaveLen(1))
			Expect(received[0].Message).To(Equal("to emma again"))
		})
	})
})
