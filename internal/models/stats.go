package models

// Stats is the site-wide statistics payload served by GET /api/stats.
type Stats struct {
	Overview        StatsOverview       `json:"overview"`
	ThisWeek        WeeklyActivity      `json:"thisWeek"`
	TopContributors []ContributorStat   `json:"topContributors"`
	TopCommenters   []CommenterStat     `json:"topCommenters"`
	PopularTags     []TagStat           `json:"popularTags"`
	MostUpvoted     []TopRecommendation `json:"mostUpvoted"`
	Personal        PersonalStats       `json:"personal"`
}

// StatsOverview holds whole-site totals.
type StatsOverview struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalRecommendations int64 `json:"totalRecommendations"`
	TotalComments        int64 `json:"totalComments"`
	TotalUpvotes         int64 `json:"totalUpvotes"`
}

// WeeklyActivity counts activity within the last seven days.
type WeeklyActivity struct {
	Recommendations int64 `json:"recommendations"`
	Comments        int64 `json:"comments"`
}

// ContributorStat ranks a user by submitted recommendations.
type ContributorStat struct {
	ID                  uint   `json:"id"`
	Nickname            string `json:"nickname"`
	RecommendationCount int64  `json:"recommendation_count"`
}

// CommenterStat ranks a user by authored comments.
type CommenterStat struct {
	ID           uint   `json:"id"`
	Nickname     string `json:"nickname"`
	CommentCount int64  `json:"comment_count"`
}

// TagStat ranks a tag by how many recommendations link it.
type TagStat struct {
	Name       string `json:"name"`
	UsageCount int64  `json:"usage_count"`
}

// TopRecommendation is a row in the most-upvoted listing.
type TopRecommendation struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	UpvoteCount  int    `json:"upvote_count"`
	UserNickname string `json:"user_nickname"`
}

// PersonalStats summarizes the requesting user's own activity.
type PersonalStats struct {
	Recommendations int64 `json:"recommendations"`
	Comments        int64 `json:"comments"`
	UpvotesReceived int64 `json:"upvotesReceived"`
}
