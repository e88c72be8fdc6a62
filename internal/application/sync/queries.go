package sync

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fibermade/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// GraphQL documents
// ---------------------------------------------------------------------------

const productsPageQuery = `
query ProductsPage($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        title
        descriptionHtml
        status
        handle
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              price
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const collectionsPageQuery = `
query CollectionsPage($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    edges {
      node {
        id
        title
        descriptionHtml
        handle
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const collectionProductsQuery = `
query CollectionProducts($id: ID!, $first: Int!, $after: String) {
  collection(id: $id) {
    products(first: $first, after: $after) {
      edges {
        node {
          id
        }
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

const productCreateMutation = `
mutation ProductCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      variants(first: 100) {
        edges {
          node {
            id
            sku
            title
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const metafieldsSetMutation = `
mutation MetafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

// ---------------------------------------------------------------------------
// Response decoding
// ---------------------------------------------------------------------------

type pageInfoPayload struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type variantNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

type productNode struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
	Status          string `json:"status"`
	Handle          string `json:"handle"`
	Variants        struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productsPagePayload struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
		PageInfo pageInfoPayload `json:"pageInfo"`
	} `json:"products"`
}

type collectionsPagePayload struct {
	Collections struct {
		Edges []struct {
			Node struct {
				ID              string `json:"id"`
				Title           string `json:"title"`
				DescriptionHTML string `json:"descriptionHtml"`
				Handle          string `json:"handle"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo pageInfoPayload `json:"pageInfo"`
	} `json:"collections"`
}

type collectionProductsPayload struct {
	Collection struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo pageInfoPayload `json:"pageInfo"`
		} `json:"products"`
	} `json:"collection"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type productCreatePayload struct {
	ProductCreate struct {
		Product struct {
			ID       string `json:"id"`
			Variants struct {
				Edges []struct {
					Node variantNode `json:"node"`
				} `json:"edges"`
			} `json:"variants"`
		} `json:"product"`
		UserErrors []userError `json:"userErrors"`
	} `json:"productCreate"`
}

type metafieldsSetPayload struct {
	MetafieldsSet struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"metafieldsSet"`
}

// toRemoteProduct converts a decoded product node into the canonical shape
func (n productNode) toRemoteProduct() integration.RemoteProduct {
	product := integration.RemoteProduct{
		ID:              n.ID,
		Title:           n.Title,
		DescriptionHTML: n.DescriptionHTML,
		Status:          integration.RemoteProductStatus(n.Status),
		Handle:          n.Handle,
		Variants:        make([]integration.RemoteVariant, 0, len(n.Variants.Edges)),
	}
	for _, edge := range n.Variants.Edges {
		price, err := decimal.NewFromString(edge.Node.Price)
		if err != nil {
			price = decimal.Zero
		}
		product.Variants = append(product.Variants, integration.RemoteVariant{
			ID:    edge.Node.ID,
			Title: edge.Node.Title,
			SKU:   edge.Node.SKU,
			Price: price,
		})
	}
	return product
}

func decodePayload(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode remote response: %w", err)
	}
	return nil
}
