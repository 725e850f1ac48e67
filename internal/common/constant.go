// Package common holds constants and small helpers shared by the KTech Hub
// client packages.
package common

// AppName is the product name shown in prompts and banners.
const AppName = "KTech Hub"

// DefaultAPIBaseURL is the production endpoint of the student-services API.
const DefaultAPIBaseURL = "https://syllabus.ktech.edu.kw/api/v1/app"
