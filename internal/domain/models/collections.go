package models

// MongoDB collection names.
const (
	CollNews         = "news"
	CollBlogs        = "blogs"
	CollEvents       = "events"
	CollGallery      = "gallery"
	CollTestimonials = "testimonials"
	CollDonations    = "donations"
	CollCampaigns    = "donation_campaigns"
	CollContacts     = "contact_messages"
	CollAdminUsers   = "admin_users"
)

// AllCollections lists every collection the service owns.
var AllCollections = []string{
	CollNews, CollBlogs, CollEvents, CollGallery, CollTestimonials,
	CollDonations, CollCampaigns, CollContacts, CollAdminUsers,
}
