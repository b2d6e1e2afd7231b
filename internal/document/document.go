// Package document maps ContractData onto the layout of a Japanese gift
// contract (贈与契約書) and writes it as a PDF or an HTML preview.
package document

import (
	"fmt"

	"github.com/mmynk/giftdeed/internal/models"
)

// PDFFilename is the suggested download name of the generated document.
const PDFFilename = "contract.pdf"

// Fixed wording of the contract.
const (
	title        = "贈与契約書"
	introFormat  = "贈与者　%s（以下「甲」という）と受贈者　%s（以下「乙」という）は次の通り贈与契約を締結した。"
	grantClause  = "贈与者は、受贈者に対し、以下の物件（以下「本物件」という。）を贈与し、受贈者はこれを承諾した。"
	closingText  = "本契約の成立を証するため、本書2通を作成し、贈与者及び受贈者記名押印の上、各1通を保有する。"
	addressLabel = "（住所）"
	nameLabel    = "（氏名）"
)

// PageSize is a page size in millimetres.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// A4 is the only page size documents are produced in.
var A4 = PageSize{Name: "A4", Width: 210, Height: 297}

// Document is the rendered contract, ready to be written out.
type Document struct {
	PageSize   PageSize
	Title      string
	Intro      string
	Articles   []Article
	Closing    string
	Date       string
	Signatures []Signature
}

// Article is a numbered article (第N条).
type Article struct {
	Number  int
	Heading string
	Body    string
	Items   []Item
}

// Item is one gift listed under Article 1.
type Item struct {
	Seq     int
	Label   string
	Content string
}

// Signature is the signing block of one party.
type Signature struct {
	Role    models.Role
	Heading string
	Address string
	Name    string
	// Seal marks where the party's seal is stamped.
	Seal bool
}

// Render lays out data as a contract. It has no side effects.
func Render(data models.ContractData) Document {
	doc := Document{
		PageSize: A4,
		Title:    title,
		Intro:    fmt.Sprintf(introFormat, data.Donor.Name, data.Donee.Name),
		Closing:  closingText,
		Date:     data.ContractDate,
	}

	items := make([]Item, len(data.Gifts))
	for i, g := range data.Gifts {
		items[i] = Item{
			Seq:     i + 1,
			Label:   fmt.Sprintf("物件 %d", i+1),
			Content: g.Description,
		}
	}
	doc.Articles = append(doc.Articles, newArticle(1, grantClause, items))

	if data.HasSpecialTerms() {
		doc.Articles = append(doc.Articles, newArticle(2, data.SpecialTerms, nil))
	}

	doc.Signatures = []Signature{
		newSignature(models.RoleDonor, "贈与者（甲）", data.Donor),
		newSignature(models.RoleDonee, "受贈者（乙）", data.Donee),
	}
	return doc
}

func newArticle(n int, body string, items []Item) Article {
	return Article{
		Number:  n,
		Heading: fmt.Sprintf("第%d条", n),
		Body:    body,
		Items:   items,
	}
}

func newSignature(role models.Role, heading string, p models.Party) Signature {
	return Signature{
		Role:    role,
		Heading: heading,
		Address: p.Address,
		Name:    p.Name,
		Seal:    true,
	}
}

// Article returns the article numbered n, if present.
func (d Document) Article(n int) (Article, bool) {
	for _, a := range d.Articles {
		if a.Number == n {
			return a, true
		}
	}
	return Article{}, false
}

// AddressLine is the address as printed in a signature block.
func (s Signature) AddressLine() string { return addressLabel + s.Address }

// NameLine is the name as printed in a signature block.
func (s Signature) NameLine() string { return nameLabel + s.Name }
