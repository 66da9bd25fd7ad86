package usecase

// answerRules is appended to every question.
const answerRules = "RULES:use maximum of 75 words. Respond succinctly and in a friendly manner. " +
	"Do not provide Links. Do no reference Sources. " +
	"Just provide Authoritative information in a succinct and friendly manner."

const generalInfo = "This ChatBot is specialized in responding to real-estate related questions for the region of " +
	"Quebec, Canada. Topics covered is anything directly or indirectly related to real-estate activities in " +
	"Quebec, Canada and courtierXpertInfo. If a question falls outside these topic types, the response will be: " +
	"“I’m sorry, but I’m specifically trained on answering questions regarding real-estate. " +
	"The faq information is provided for insipiration”"

// faq maps frequent questions to their reference answers.
var faq = map[string]string{
	"What legal disclosures must I make when selling a property in Quebec?": "Sellers in Quebec must disclose any known defects that could affect the value or enjoyment of the property, including latent defects not visible through a normal inspection.",

	"How is the real estate commission structured in Quebec?": "In Quebec, commission rates are negotiable and typically range between 4% to 6% of the sale price, split between the buyer's and seller's agents.",

	"What is a certificate of location, and do I need one to sell my property?": "A certificate of location is a document prepared by a land surveyor that shows the property boundaries and any encroachments. It's typically required in a real estate transaction.",

	"How can I determine the asking price for my property?": "The asking price is usually based on a comparative market analysis, considering similar properties in the area, market conditions, and the property's condition. Consider requesting a free home evaluation by completing the digital journey above.",

	"What are the tax implications of selling my property in Quebec?": "In Quebec, you may be subject to capital gains tax if the property sold is not your primary residence. It's essential to consult with a tax advisor for specific advice.",

	"What are the steps involved in buying a home in Quebec?": "The process typically involves pre-approval for a mortgage, property searching, making an offer, getting a home inspection, finalizing the mortgage, and closing the deal. It's advisable to work with a real estate agent and a notary.",

	"Do I need a notary to buy a house in Quebec?": "Yes, in Quebec, a notary plays a crucial role in real estate transactions, handling legal documents, title searches, and the transfer of ownership.",

	"What is the 'welcome tax' (taxe de bienvenue)?": "The 'welcome tax,' officially known as the transfer duties, is a tax paid by the buyer to the municipality where the property is located. It's calculated based on the purchase price or municipal evaluation, whichever is higher.",

	"How much down payment do I need for purchasing a property?": "In Canada, a minimum down payment of 5% is generally required, but if it's less than 20%, you'll need mortgage loan insurance.",

	"Can I buy a property in Quebec as a non-resident?": "Yes, non-residents can buy property in Quebec, but there may be additional requirements, such as a higher down payment and different tax implications.",
}

// companyInfo describes the brokerage the chatbot represents.
var companyInfo = struct {
	Intro             string   `json:"intro"`
	ReasonsToChooseUs []string `json:"reasonsToChooseUs"`
}{
	Intro: "Welcome to CourtierXpert - The Future of Real Estate at Your Fingertips. We're revolutionizing the way you buy and sell properties with our cutting-edge platform, designed for seamless, efficient, and cost-effective real estate transactions.",
	ReasonsToChooseUs: []string{
		"1. Virtual Selling Real Estate Broker: Experience the future with our virtual broker system. Get a free, no-obligation, and accurate home evaluation in less than 24 hours! Simply upload images of your property to our website, and let our team and advanced algorithms do the rest.",
		"2. Save Time and Money: Time = Money, So Save Both! Enjoy significant savings with our online broker services. We've streamlined the traditional process to offer you the same high-quality service at a more accessible price point.",
		"3. 7/7 Assistance: Our dedicated team is available 7 days a week to assist you with any queries or concerns. Whether you're a night owl or an early bird, we're here to help at your convenience.",
		"4. Maximum Exposure for Your Listing: Your property deserves the spotlight. That's why we list it on MLS and enhance its visibility with targeted private paid ads, ensuring it reaches the right audience.",
		"5. Hybrid Approach: Prefer the traditional method? No problem! We connect you with the finest local real estate brokers, handpicked for their expertise and track record, to ensure you receive top-tier service.",
		"6. AI-Powered Support: Got questions? Our AI chatbot is ready to provide instant, personalized responses to all your real estate inquiries. And if you need more in-depth assistance, our expert support team is just a call away.",
	},
}
