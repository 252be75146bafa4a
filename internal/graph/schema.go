// internal/graph/schema.go
package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
)

// Schema is the marketplace GraphQL schema. Every query requires a signed
// in caller; mutations report domain failures through their payload.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

scalar Time
scalar Upload

enum PermissionLevel {
	BANNED
	BUYER
	SELLER
	ADMIN
}

type Query {
	product(id: ID!): Product
	products(page: Int, pageSize: Int): ProductPage!
	profile(id: ID, username: String, email: String): Profile
	myProfile: Profile!
	allProfiles: [Profile!]!
	allCategories: [Category!]!
	category(name: String!): Category
	wishlist: [Product!]!
	productOffer(id: ID!): [Offer!]
}

type Mutation {
	createProduct(input: ProductInput!): ProductPayload!
	updateProduct(id: ID!, input: ProductInput!): ProductPayload!
	updateProfile(username: String!, input: ProfileInput): ProfilePayload!
	updateWishlist(id: ID!): WishlistPayload!
	createOffer(id: ID!, input: OfferInput): OfferPayload!
	createUserReport(input: UserReportInput!): ReportPayload!
	createProductReport(input: ProductReportInput!): ReportPayload!
	rateProfile(input: RatingInput!): ProfilePayload!
	uploadImage(input: UploadImageInput!, file: [Upload!]): ImagePayload!
}

type Profile {
	id: ID!
	username: String!
	name: String!
	email: String!
	hostel: String!
	hostelCode: String!
	contactNo: String
	rating: Float!
	numRatings: Int!
	permissionLevel: PermissionLevel!
	isComplete: Boolean!
	products: [Product!]!
	offers: [Offer!]!
	reports: [Report!]!
}

type Product {
	id: ID!
	name: String!
	description: String!
	expectedPrice: Int!
	isNegotiable: Boolean!
	visible: Boolean!
	expired: Boolean!
	sold: Boolean!
	numOffers: Int!
	createdAt: Time!
	seller: Profile!
	category: Category
	images: [String!]!
	offers: [Offer!]!
	questions: [Question!]!
}

type Category {
	id: ID!
	name: String!
	products: [Product!]!
}

type Offer {
	id: ID!
	amount: Int!
	message: String!
	createdAt: Time!
	offerer: Profile!
	product: Product!
}

type Question {
	id: ID!
	question: String!
	answer: String!
	isAnswered: Boolean!
	createdAt: Time!
	askedBy: Profile!
	product: Product!
}

type Report {
	id: ID!
	targetType: String!
	category: Int!
	message: String!
	createdAt: Time!
	reporter: Profile
	reportedUser: Profile
	reportedProduct: Product
}

type Wishlist {
	id: ID!
	profile: Profile!
	products: [Product!]!
}

type ProductPage {
	page: Int!
	pages: Int!
	hasNext: Boolean!
	hasPrev: Boolean!
	objects: [Product!]!
}

input ProductInput {
	name: String
	expectedPrice: Int
	isNegotiable: Boolean
	description: String
	categoryId: ID
}

input ProfileInput {
	name: String
	hostel: String
	contactNo: String
}

input OfferInput {
	amount: Int
	message: String
}

input UserReportInput {
	reportedUser: String!
	category: Int
	message: String
}

input ProductReportInput {
	reportedProduct: ID!
	category: Int
	message: String
}

input RatingInput {
	profileId: ID!
	rating: Int!
}

input UploadImageInput {
	productId: ID!
}

type ProductPayload {
	ok: Boolean!
	errors: [String!]!
	product: Product
}

type ProfilePayload {
	ok: Boolean!
	errors: [String!]!
	profile: Profile
}

type WishlistPayload {
	ok: Boolean!
	errors: [String!]!
	wishlist: Wishlist
}

type OfferPayload {
	ok: Boolean!
	errors: [String!]!
	offer: Offer
}

type ReportPayload {
	ok: Boolean!
	errors: [String!]!
	report: Report
}

type ImagePayload {
	ok: Boolean!
	errors: [String!]!
	product: Product
	images: [String!]!
}
`

const maxQueryDepth = 12

// NewSchema parses Schema against r. It panics if a resolver does not match
// the schema.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) *graphql.Schema {
	opts = append([]graphql.SchemaOpt{graphql.MaxDepth(maxQueryDepth)}, opts...)
	return graphql.MustParseSchema(Schema, r, opts...)
}
