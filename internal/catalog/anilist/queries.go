package anilist

// Field selections are shared between the by-id and search queries so a
// search hit converts to the same payload shape as a direct fetch.
const mediaFields = `
	id
	idMal
	title {
		english
		romaji
		native
	}
	synonyms
	description
	format
	status
	episodes
	averageScore
	genres
	tags {
		name
		rank
		isMediaSpoiler
	}
	studios(isMain: true) {
		nodes {
			name
		}
	}
	startDate {
		year
		month
		day
	}
	endDate {
		year
		month
		day
	}
	coverImage {
		extraLarge
		large
		medium
	}
	bannerImage
	nextAiringEpisode {
		episode
		airingAt
	}
`

const characterFields = `
	id
	name {
		full
		native
		alternative
	}
	image {
		large
		medium
	}
	description
	gender
	dateOfBirth {
		year
		month
		day
	}
	favourites
`

const staffFields = `
	id
	name {
		full
		native
		alternative
	}
	image {
		large
		medium
	}
	description
	dateOfBirth {
		year
		month
		day
	}
	favourites
`

const mediaByIDQuery = `
query ($id: Int) {
	Media(id: $id, type: ANIME) {` + mediaFields + `
		reviews(sort: RATING_DESC, perPage: 5) {
			nodes {
				summary
				score
				siteUrl
				user {
					name
				}
			}
		}
	}
}
`

// mediaByMalQuery resolves a MAL id to the AniList id.
const mediaByMalQuery = `
query ($idMal: Int) {
	Media(idMal: $idMal, type: ANIME) {
		id
	}
}
`

const characterByIDQuery = `
query ($id: Int) {
	Character(id: $id) {` + characterFields + `
		media(sort: POPULARITY_DESC, perPage: 25) {
			edges {
				characterRole
				node {
					id
					idMal
					title {
						romaji
					}
					coverImage {
						medium
					}
				}
			}
		}
	}
}
`

const staffByIDQuery = `
query ($id: Int) {
	Staff(id: $id) {` + staffFields + `
		languageV2
		characterMedia(sort: POPULARITY_DESC, perPage: 25) {
			edges {
				characterRole
				node {
					id
					idMal
					title {
						romaji
					}
					coverImage {
						medium
					}
				}
				characters {
					id
					name {
						full
					}
					image {
						medium
					}
				}
			}
		}
		staffMedia(sort: POPULARITY_DESC, perPage: 25) {
			edges {
				staffRole
				node {
					id
					idMal
					title {
						romaji
					}
					coverImage {
						medium
					}
				}
			}
		}
	}
}
`

const searchMediaQuery = `
query ($search: String, $page: Int, $perPage: Int) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			currentPage
			lastPage
			hasNextPage
			perPage
		}
		media(search: $search, type: ANIME, sort: SEARCH_MATCH) {` + mediaFields + `
		}
	}
}
`

const searchCharactersQuery = `
query ($search: String, $page: Int, $perPage: Int) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			currentPage
			lastPage
			hasNextPage
			perPage
		}
		characters(search: $search, sort: SEARCH_MATCH) {` + characterFields + `
		}
	}
}
`

const searchStaffQuery = `
query ($search: String, $page: Int, $perPage: Int) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			currentPage
			lastPage
			hasNextPage
			perPage
		}
		staff(search: $search, sort: SEARCH_MATCH) {` + staffFields + `
		}
	}
}
`
