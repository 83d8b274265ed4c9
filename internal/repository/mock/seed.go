package mock

import (
	"fmt"
	"time"

	"Clubhouse_Hub/internal/model"
)

// Seed is the initial content of a Store.
type Seed struct {
	Locations       []model.Location
	Profiles        []model.Profile
	MemberLocations []model.MemberLocation
	Channels        []model.Channel
	Posts           []model.Post
	Comments        []model.Comment
	Conversations   []model.Conversation
	Messages        []model.DirectMessage
}

const (
	LocDarlingHill     = "loc-darling-hill"
	LocLitchfieldHills = "loc-litchfield-hills"

	UserAdmin = "user-admin"
	UserStaff = "user-staff"
	UserMaya  = "user-maya"
	UserTom   = "user-tom"
	UserPriya = "user-priya"
)

var channelOrder = []model.ChannelCategory{
	model.CategoryAnnouncements,
	model.CategoryRides,
	model.CategoryRuns,
	model.CategoryYogaWellness,
	model.CategorySocial,
	model.CategoryGeneral,
}

// ChannelID returns the seeded channel id for a location and category.
func ChannelID(locationID string, category model.ChannelCategory) string {
	return fmt.Sprintf("ch-%s-%s", locationID[len("loc-"):], category)
}

// DefaultSeed 演示数据，时间以 now 为基准向前推
func DefaultSeed(now time.Time) Seed {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	locations := []model.Location{
		{
			ID: LocDarlingHill, Name: "Darling Hill", Slug: "darling-hill",
			Address: "1 Darling Hill Rd", City: "East Burke", State: "VT",
			Timezone: "America/New_York", ColorTheme: model.ThemeDarlingHill,
		},
		{
			ID: LocLitchfieldHills, Name: "Litchfield Hills", Slug: "litchfield-hills",
			Address: "12 West St", City: "Litchfield", State: "CT",
			Timezone: "America/New_York", ColorTheme: model.ThemeLitchfieldHills,
		},
	}

	profiles := []model.Profile{
		{ID: UserAdmin, Email: "admin@clubhouse.test", FullName: "Alex Rivera", Role: model.RoleAdmin, Bio: "Clubhouse lead."},
		{ID: UserStaff, Email: "sam@clubhouse.test", FullName: "Sam Okafor", DisplayName: "Coach Sam", Role: model.RoleStaff, Bio: "Gravel guide and run coach."},
		{ID: UserMaya, Email: "maya@example.com", FullName: "Maya Chen", Role: model.RoleMember},
		{ID: UserTom, Email: "tom@example.com", FullName: "Tom Becker", Role: model.RoleMember},
		{ID: UserPriya, Email: "priya@example.com", FullName: "Priya Nair", Role: model.RoleMember},
	}
	for i := range profiles {
		profiles[i].CreatedAt = ago(90 * 24 * time.Hour)
		profiles[i].UpdatedAt = profiles[i].CreatedAt
	}

	var memberLocations []model.MemberLocation
	addMember := func(profileID, locationID string, primary bool) {
		memberLocations = append(memberLocations, model.MemberLocation{
			ID:         fmt.Sprintf("ml-%s-%s", profileID, locationID),
			ProfileID:  profileID,
			LocationID: locationID,
			IsPrimary:  primary,
		})
	}
	addMember(UserAdmin, LocDarlingHill, true)
	addMember(UserAdmin, LocLitchfieldHills, false)
	addMember(UserStaff, LocDarlingHill, true)
	addMember(UserMaya, LocDarlingHill, true)
	addMember(UserTom, LocLitchfieldHills, true)
	addMember(UserPriya, LocLitchfieldHills, true)
	addMember(UserPriya, LocDarlingHill, false)

	var channels []model.Channel
	for _, loc := range locations {
		for i, cat := range channelOrder {
			meta := model.ChannelMeta[cat]
			channels = append(channels, model.Channel{
				ID:          ChannelID(loc.ID, cat),
				LocationID:  loc.ID,
				Category:    cat,
				Name:        meta.Label,
				Description: meta.Description,
				SortOrder:   i + 1,
			})
		}
	}

	dhAnnounce := ChannelID(LocDarlingHill, model.CategoryAnnouncements)
	dhRides := ChannelID(LocDarlingHill, model.CategoryRides)
	dhRuns := ChannelID(LocDarlingHill, model.CategoryRuns)
	lhSocial := ChannelID(LocLitchfieldHills, model.CategorySocial)
	lhYoga := ChannelID(LocLitchfieldHills, model.CategoryYogaWellness)

	posts := []model.Post{
		{
			ID: "post-welcome", ChannelID: dhAnnounce, AuthorID: UserAdmin,
			Title: "Welcome to the clubhouse", IsPinned: true,
			Body: "This is the home for rides, runs and everything in between. Say hi in General!",
			CreatedAt: ago(30 * 24 * time.Hour),
		},
		{
			ID: "post-saturday-gravel", ChannelID: dhRides, AuthorID: UserStaff,
			Title: "Saturday gravel loop", IsPinned: true,
			Body:       "42 miles, no-drop pace. Meet at the barn at 8.",
			BookingURL: "https://book.clubhouse.test/gravel-saturday",
			CreatedAt:  ago(3 * 24 * time.Hour),
		},
		{
			ID: "post-tuesday-ride", ChannelID: dhRides, AuthorID: UserMaya,
			Body:      "Anyone up for an easy spin Tuesday evening?",
			CreatedAt: ago(26 * time.Hour),
		},
		{
			ID: "post-trail-run", ChannelID: dhRuns, AuthorID: UserPriya,
			Title: "Trail run recap", Body: "Muddy but glorious. Photos in the thread.",
			CreatedAt: ago(5 * time.Hour),
		},
		{
			ID: "post-sauna-night", ChannelID: lhYoga, AuthorID: UserStaff,
			Title: "Sauna + stretch night", Body: "Thursday 7pm, mats provided.",
			BookingURL: "https://book.clubhouse.test/sauna-thursday",
			CreatedAt:  ago(2 * 24 * time.Hour),
		},
		{
			ID: "post-potluck", ChannelID: lhSocial, AuthorID: UserTom,
			Title: "Potluck after the long run", Body: "Bring a dish, we'll fire up the grill.",
			CreatedAt: ago(10 * time.Hour),
		},
	}
	for i := range posts {
		posts[i].UpdatedAt = posts[i].CreatedAt
	}

	comments := []model.Comment{
		{ID: "cmt-1", PostID: "post-saturday-gravel", AuthorID: UserMaya, Body: "I'm in!", CreatedAt: ago(2 * 24 * time.Hour)},
		{ID: "cmt-2", PostID: "post-saturday-gravel", AuthorID: UserPriya, Body: "Is there a short route option?", CreatedAt: ago(40 * time.Hour)},
		{ID: "cmt-3", PostID: "post-saturday-gravel", AuthorID: UserStaff, Body: "Yes, 25 miles, turn at the covered bridge.", CreatedAt: ago(38 * time.Hour)},
		{ID: "cmt-4", PostID: "post-potluck", AuthorID: UserPriya, Body: "Bringing dumplings.", CreatedAt: ago(9 * time.Hour)},
	}
	for i := range comments {
		comments[i].UpdatedAt = comments[i].CreatedAt
	}

	p1, p2 := model.CanonicalPair(UserMaya, UserStaff)
	conversations := []model.Conversation{
		{ID: "conv-maya-sam", ParticipantOne: p1, ParticipantTwo: p2, CreatedAt: ago(4 * 24 * time.Hour), UpdatedAt: ago(20 * time.Hour)},
	}
	messages := []model.DirectMessage{
		{ID: "dm-1", ConversationID: "conv-maya-sam", SenderID: UserMaya, Body: "Do I need a gravel bike for Saturday?", CreatedAt: ago(21 * time.Hour)},
		{ID: "dm-2", ConversationID: "conv-maya-sam", SenderID: UserStaff, Body: "Wide tires on a cross bike will do fine.", CreatedAt: ago(20 * time.Hour)},
	}

	return Seed{
		Locations:       locations,
		Profiles:        profiles,
		MemberLocations: memberLocations,
		Channels:        channels,
		Posts:           posts,
		Comments:        comments,
		Conversations:   conversations,
		Messages:        messages,
	}
}
